package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
	"ticketing/internal/repository"
)

// AdminService backs the moderation views.
type AdminService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	SetUserStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) (*model.User, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListBookings(ctx context.Context) ([]model.Booking, error)
}

type adminService struct {
	userRepo    repository.UserRepository
	eventRepo   repository.EventRepository
	bookingRepo repository.BookingRepository
}

// NewAdminService creates a new admin service.
func NewAdminService(
	userRepo repository.UserRepository,
	eventRepo repository.EventRepository,
	bookingRepo repository.BookingRepository,
) AdminService {
	return &adminService{userRepo: userRepo, eventRepo: eventRepo, bookingRepo: bookingRepo}
}

func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// SetUserStatus blocks or unblocks an account. Blocking does not touch
// outstanding tokens; it only stops future logins.
func (s *adminService) SetUserStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) (*model.User, error) {
	user, err := s.userRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user status: %w", err)
	}
	return user, nil
}

func (s *adminService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.eventRepo.ListAll(ctx)
}

func (s *adminService) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return s.bookingRepo.ListAll(ctx)
}
