package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
)

// BookingRepository is the booking ledger. It owns Event.BookedCount.
type BookingRepository interface {
	FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	// CreateIfRoom inserts the booking and takes one seat of its event in a
	// single transaction.
	CreateIfRoom(ctx context.Context, booking *model.Booking) error
	// DeleteAndRelease removes the user's booking and gives its seat back.
	DeleteAndRelease(ctx context.Context, userID, eventID uuid.UUID) error
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListByUser returns the user's bookings with their events resolved.
func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := r.db.WithContext(ctx).Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListAll returns every booking with user and event names.
func (r *bookingRepository) ListAll(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Preload("Event", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateIfRoom takes a seat with a conditional update, so concurrent
// bookers cannot push booked_count past capacity, then inserts the booking.
// The unique (user_id, event_id) index rejects a second booking.
func (r *bookingRepository) CreateIfRoom(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Event{}).
			Where("id = ? AND is_active = ? AND booked_count < capacity", booking.EventID, true).
			UpdateColumn("booked_count", gorm.Expr("booked_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.seatUnavailable(tx, booking.EventID)
		}

		if err := tx.Omit("User", "Event").Create(booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrAlreadyBooked
			}
			return err
		}
		return nil
	})
}

// seatUnavailable explains why the conditional increment matched no row.
func (r *bookingRepository) seatUnavailable(tx *gorm.DB, eventID uuid.UUID) error {
	var event model.Event
	if err := tx.Select("id", "is_active").Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEventNotFound
		}
		return err
	}
	if !event.IsActive {
		return apperrors.ErrEventNotFound
	}
	return apperrors.ErrEventFull
}

// DeleteAndRelease deletes the booking and decrements booked_count, never
// below zero.
func (r *bookingRepository) DeleteAndRelease(ctx context.Context, userID, eventID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&model.Booking{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrBookingNotFound
		}

		return tx.Model(&model.Event{}).
			Where("id = ? AND booked_count > 0", eventID).
			UpdateColumn("booked_count", gorm.Expr("booked_count - ?", 1)).Error
	})
}
