package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Jazz", want: "%jazz%"},
		{in: "100%", want: `%100\%%`},
		{in: "a_b", want: `%a\_b%`},
		{in: `c:\x`, want: `%c:\\x%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, likePattern(tt.in), tt.in)
	}
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("raises capacity", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewEventRepository(db)
		event := seedEvent(t, db, 10, 4)

		event.Capacity = 12
		event.Name = "Go Meetup II"
		require.NoError(t, repo.Update(ctx, event))

		stored, err := repo.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 12, stored.Capacity)
		assert.Equal(t, "Go Meetup II", stored.Name)
		assert.Equal(t, 4, stored.BookedCount)
	})

	t.Run("shrinks capacity to the booked seats", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewEventRepository(db)
		event := seedEvent(t, db, 10, 4)

		event.Capacity = 4
		require.NoError(t, repo.Update(ctx, event))
		assert.Equal(t, 4, bookedCount(t, db, event.ID))
	})

	t.Run("seat booked after the read blocks the shrink", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewEventRepository(db)
		bookings := NewBookingRepository(db)
		seeded := seedEvent(t, db, 10, 9)

		event, err := repo.FindByID(ctx, seeded.ID)
		require.NoError(t, err)
		require.NoError(t, bookings.CreateIfRoom(ctx, &model.Booking{UserID: uuid.New(), EventID: event.ID}))

		event.Capacity = 9
		err = repo.Update(ctx, event)

		assert.ErrorIs(t, err, apperrors.ErrInvalidCapacity)
		stored, err := repo.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, stored.Capacity)
		assert.Equal(t, 10, stored.BookedCount)
	})

	t.Run("never writes the booked counter", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewEventRepository(db)
		event := seedEvent(t, db, 10, 3)

		event.BookedCount = 0
		event.Location = "Hall B"
		require.NoError(t, repo.Update(ctx, event))
		assert.Equal(t, 3, bookedCount(t, db, event.ID))
	})
}
