package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ticketing/internal/cache"
	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
	"ticketing/internal/mq"
	"ticketing/internal/repository"
)

// Booker identifies the user making a booking.
type Booker struct {
	ID    uuid.UUID
	Email string
}

// BookingService is the booking ledger.
type BookingService interface {
	Book(ctx context.Context, booker Booker, eventID uuid.UUID) (*model.Booking, error)
	Cancel(ctx context.Context, booker Booker, eventID uuid.UUID) error
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	eventRepo   repository.EventRepository
	cache       *cache.Client
	publisher   mq.EventPublisher
}

// NewBookingService creates a new booking service.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	eventRepo repository.EventRepository,
	cache *cache.Client,
	publisher mq.EventPublisher,
) BookingService {
	if publisher == nil {
		publisher = mq.NopPublisher{}
	}
	return &bookingService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		cache:       cache,
		publisher:   publisher,
	}
}

// Book reserves a seat. Checks run in order: event exists and is active,
// event has room, user has no booking yet. The seat itself is taken by an
// atomic conditional update, so a concurrent booker that passed the same
// checks still fails with ErrEventFull.
func (s *bookingService) Book(ctx context.Context, booker Booker, eventID uuid.UUID) (*model.Booking, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsActive {
		return nil, apperrors.ErrEventNotFound
	}
	if event.Full() {
		return nil, apperrors.ErrEventFull
	}

	existing, err := s.bookingRepo.FindByUserAndEvent(ctx, booker.ID, eventID)
	if err == nil && existing != nil {
		return nil, apperrors.ErrAlreadyBooked
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check booking: %w", err)
	}

	booking := &model.Booking{
		ID:      uuid.New(),
		UserID:  booker.ID,
		EventID: eventID,
	}
	if err := s.bookingRepo.CreateIfRoom(ctx, booking); err != nil {
		if isLedgerError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.cache.Delete(ctx, eventCacheKey(eventID))

	s.publish(ctx, mq.RKBookingCreated, mq.BookingEvent{
		BookingID:  booking.ID.String(),
		UserID:     booker.ID.String(),
		UserEmail:  booker.Email,
		EventID:    eventID.String(),
		EventName:  event.Name,
		EventDate:  event.Date,
		OccurredAt: time.Now().UTC(),
	})

	booking.Event = event
	return booking, nil
}

// Cancel deletes the user's booking and releases its seat.
func (s *bookingService) Cancel(ctx context.Context, booker Booker, eventID uuid.UUID) error {
	if err := s.bookingRepo.DeleteAndRelease(ctx, booker.ID, eventID); err != nil {
		if errors.Is(err, apperrors.ErrBookingNotFound) {
			return err
		}
		return fmt.Errorf("cancel booking: %w", err)
	}
	s.cache.Delete(ctx, eventCacheKey(eventID))

	ev := mq.BookingEvent{
		UserID:     booker.ID.String(),
		UserEmail:  booker.Email,
		EventID:    eventID.String(),
		OccurredAt: time.Now().UTC(),
	}
	if event, err := s.eventRepo.FindByID(ctx, eventID); err == nil {
		ev.EventName = event.Name
		ev.EventDate = event.Date
	}
	s.publish(ctx, mq.RKBookingCancelled, ev)
	return nil
}

// ListMine returns the user's bookings with their events.
func (s *bookingService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) publish(ctx context.Context, key string, ev mq.BookingEvent) {
	if err := s.publisher.PublishJSON(ctx, key, ev); err != nil {
		log.Printf("booking: publish %s for event %s: %v", key, ev.EventID, err)
	}
}

func isLedgerError(err error) bool {
	return errors.Is(err, apperrors.ErrEventNotFound) ||
		errors.Is(err, apperrors.ErrEventFull) ||
		errors.Is(err, apperrors.ErrAlreadyBooked)
}
