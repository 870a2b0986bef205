package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
)

var profileColumns = []string{"name", "email", "gender", "contact"}

func TestUserService_UpdateProfile(t *testing.T) {
	id := uuid.New()
	newUser := func() *model.User {
		return &model.User{ID: id, Name: "Ann", Email: "ann@example.com", Role: model.RoleUser}
	}

	tests := []struct {
		name          string
		input         ProfileInput
		setupMock     func(*MockUserRepository, *model.User)
		expectedError error
		check         func(*testing.T, *model.User)
	}{
		{
			name:  "updates name and contact",
			input: ProfileInput{Name: ptr("Annie"), Contact: ptr("+1 555 0100")},
			setupMock: func(m *MockUserRepository, u *model.User) {
				m.On("FindByID", mock.Anything, id).Return(u, nil)
				m.On("Update", mock.Anything, u, profileColumns).Return(nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.Equal(t, "Annie", u.Name)
				assert.Equal(t, "+1 555 0100", u.Contact)
				assert.Equal(t, "ann@example.com", u.Email)
			},
		},
		{
			name:  "email taken by someone else",
			input: ProfileInput{Email: ptr("bob@example.com")},
			setupMock: func(m *MockUserRepository, u *model.User) {
				m.On("FindByID", mock.Anything, id).Return(u, nil)
				m.On("FindByEmail", mock.Anything, "bob@example.com").Return(&model.User{ID: uuid.New()}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:  "changes email",
			input: ProfileInput{Email: ptr("ann@new.example.com")},
			setupMock: func(m *MockUserRepository, u *model.User) {
				m.On("FindByID", mock.Anything, id).Return(u, nil)
				m.On("FindByEmail", mock.Anything, "ann@new.example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Update", mock.Anything, u, profileColumns).Return(nil)
			},
			check: func(t *testing.T, u *model.User) {
				assert.Equal(t, "ann@new.example.com", u.Email)
			},
		},
		{
			name:  "unknown user",
			input: ProfileInput{},
			setupMock: func(m *MockUserRepository, _ *model.User) {
				m.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo, newUser())
			svc := NewUserService(repo)

			user, err := svc.UpdateProfile(context.Background(), id, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				tt.check(t, user)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAdminService_SetUserStatus(t *testing.T) {
	id := uuid.New()
	repo := new(MockUserRepository)
	repo.On("UpdateStatus", mock.Anything, id, model.UserStatusBlocked).
		Return(&model.User{ID: id, Status: model.UserStatusBlocked}, nil)
	missing := uuid.New()
	repo.On("UpdateStatus", mock.Anything, missing, model.UserStatusActive).Return(nil, gorm.ErrRecordNotFound)

	svc := NewAdminService(repo, new(MockEventRepository), nil)

	user, err := svc.SetUserStatus(context.Background(), id, model.UserStatusBlocked)
	require.NoError(t, err)
	assert.True(t, user.Blocked())

	_, err = svc.SetUserStatus(context.Background(), missing, model.UserStatusActive)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
