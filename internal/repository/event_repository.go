package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
)

// EventRepository defines event persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter) ([]model.Event, error)
	ListAll(ctx context.Context) ([]model.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func preloadAgent(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

// Create creates a new event.
func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Omit("Agent").Create(event).Error
}

// Update saves the editable fields of an event. The booked counter is
// owned by the booking ledger and is never written here. The write only
// applies while booked_count still fits the new capacity, so a seat taken
// after the caller read the event cannot be stranded above capacity.
func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	db := r.db.WithContext(ctx)
	res := db.Model(event).
		Where("booked_count <= ?", event.Capacity).
		Select("name", "date", "description", "category", "location", "image", "tags", "price", "capacity", "is_active").
		Updates(event)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// MySQL reports zero rows for a no-op write, so look at the row again.
	var current model.Event
	if err := db.Select("id", "booked_count").Where("id = ?", event.ID).First(&current).Error; err != nil {
		return err
	}
	if current.BookedCount > event.Capacity {
		return apperrors.ErrInvalidCapacity
	}
	return nil
}

// FindByID finds an event by ID regardless of its active flag.
func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Preload("Agent", preloadAgent).
		Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns active events matching the filter.
func (r *eventRepository) List(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	q := r.db.WithContext(ctx).Preload("Agent", preloadAgent).Where("is_active = ?", true)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", likePattern(filter.Location))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if filter.FromDate != nil {
		q = q.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("date <= ?", *filter.ToDate)
	}

	var events []model.Event
	if err := q.Order("date ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListAll returns every event, including soft-deleted ones.
func (r *eventRepository) ListAll(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).Preload("Agent", preloadAgent).
		Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// likePattern builds a case-insensitive substring pattern, escaping LIKE
// wildcards in the user input.
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
