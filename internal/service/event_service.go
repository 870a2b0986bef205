package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ticketing/internal/cache"
	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
	"ticketing/internal/repository"
)

const eventCacheTTL = 5 * time.Minute

// EventInput carries event fields. Nil fields are left untouched on update.
type EventInput struct {
	Name        *string
	Date        *time.Time
	Description *string
	Category    *string
	Location    *string
	Image       *string
	Tags        *string
	Price       *decimal.Decimal
	Capacity    *int
}

// EventService manages the event catalog.
type EventService interface {
	CreateEvent(ctx context.Context, agentID uuid.UUID, input EventInput) (*model.Event, error)
	UpdateEvent(ctx context.Context, actorID, eventID uuid.UUID, input EventInput) (*model.Event, error)
	DeleteEvent(ctx context.Context, actorID, eventID uuid.UUID) error
	GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListEvents(ctx context.Context, filter model.EventFilter) ([]model.Event, error)
}

type eventService struct {
	repo  repository.EventRepository
	cache *cache.Client
}

// NewEventService creates a new event service.
func NewEventService(repo repository.EventRepository, cache *cache.Client) EventService {
	return &eventService{repo: repo, cache: cache}
}

func eventCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("event:%s", id.String())
}

// CreateEvent creates an active event owned by the agent. A missing
// capacity defaults to 100.
func (s *eventService) CreateEvent(ctx context.Context, agentID uuid.UUID, input EventInput) (*model.Event, error) {
	if input.Name == nil || *input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidEvent)
	}
	if input.Date == nil || input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", apperrors.ErrInvalidEvent)
	}

	event := &model.Event{
		ID:       uuid.New(),
		AgentID:  agentID,
		IsActive: true,
		Capacity: model.DefaultEventCapacity,
	}
	if err := applyEventInput(event, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// UpdateEvent edits an event. Only the owning agent may edit it.
func (s *eventService) UpdateEvent(ctx context.Context, actorID, eventID uuid.UUID, input EventInput) (*model.Event, error) {
	event, err := s.ownedEvent(ctx, actorID, eventID)
	if err != nil {
		return nil, err
	}
	if err := applyEventInput(event, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, event); err != nil {
		if errors.Is(err, apperrors.ErrInvalidCapacity) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.cache.Delete(ctx, eventCacheKey(eventID))
	return event, nil
}

// DeleteEvent soft-deletes an event by clearing its active flag.
func (s *eventService) DeleteEvent(ctx context.Context, actorID, eventID uuid.UUID) error {
	event, err := s.ownedEvent(ctx, actorID, eventID)
	if err != nil {
		return err
	}
	event.IsActive = false
	if err := s.repo.Update(ctx, event); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.cache.Delete(ctx, eventCacheKey(eventID))
	return nil
}

// GetEvent returns an event by id, active or not, with caching.
func (s *eventService) GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var cached model.Event
	if s.cache.GetJSON(ctx, eventCacheKey(id), &cached) {
		return &cached, nil
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	s.cache.SetJSON(ctx, eventCacheKey(id), event, eventCacheTTL)
	return event, nil
}

// ListEvents returns active events matching the filter.
func (s *eventService) ListEvents(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) ownedEvent(ctx context.Context, actorID, eventID uuid.UUID) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.OwnedBy(actorID) {
		return nil, apperrors.ErrNotOwner
	}
	return event, nil
}

func applyEventInput(event *model.Event, input EventInput) error {
	if input.Capacity != nil {
		if *input.Capacity <= 0 || *input.Capacity < event.BookedCount {
			return apperrors.ErrInvalidCapacity
		}
		event.Capacity = *input.Capacity
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return fmt.Errorf("%w: price cannot be negative", apperrors.ErrInvalidEvent)
		}
		event.Price = *input.Price
	}
	if input.Name != nil {
		if *input.Name == "" {
			return fmt.Errorf("%w: name is required", apperrors.ErrInvalidEvent)
		}
		event.Name = *input.Name
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Category != nil {
		event.Category = *input.Category
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.Image != nil {
		event.Image = *input.Image
	}
	if input.Tags != nil {
		event.Tags = *input.Tags
	}
	return nil
}
