package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
	"ticketing/internal/mq"
)

// memoryLedger keeps events and bookings in memory and applies the same
// conditional counter updates as the gorm repository.
type memoryLedger struct {
	mu       sync.Mutex
	events   map[uuid.UUID]*model.Event
	bookings map[[2]uuid.UUID]model.Booking
}

func newMemoryLedger(events ...*model.Event) *memoryLedger {
	l := &memoryLedger{
		events:   make(map[uuid.UUID]*model.Event),
		bookings: make(map[[2]uuid.UUID]model.Booking),
	}
	for _, e := range events {
		l.events[e.ID] = e
	}
	return l
}

func (l *memoryLedger) event(id uuid.UUID) model.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.events[id]
}

// ledgerEvents exposes the ledger's events as an EventRepository.
type ledgerEvents struct{ l *memoryLedger }

func (v ledgerEvents) Create(_ context.Context, event *model.Event) error {
	l := v.l
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events[event.ID] = event
	return nil
}

func (v ledgerEvents) Update(_ context.Context, event *model.Event) error {
	l := v.l
	l.mu.Lock()
	defer l.mu.Unlock()
	stored, ok := l.events[event.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	booked := stored.BookedCount
	if booked > event.Capacity {
		return apperrors.ErrInvalidCapacity
	}
	*stored = *event
	stored.BookedCount = booked
	return nil
}

func (v ledgerEvents) FindByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	l := v.l
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (v ledgerEvents) List(ctx context.Context, _ model.EventFilter) ([]model.Event, error) {
	return v.ListAll(ctx)
}

func (v ledgerEvents) ListAll(context.Context) ([]model.Event, error) {
	l := v.l
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Event, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, *e)
	}
	return out, nil
}

func (l *memoryLedger) FindByUserAndEvent(_ context.Context, userID, eventID uuid.UUID) (*model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bookings[[2]uuid.UUID{userID, eventID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (l *memoryLedger) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.Booking
	for key, b := range l.bookings {
		if key[0] == userID {
			ev := *l.events[key[1]]
			b.Event = &ev
			out = append(out, b)
		}
	}
	return out, nil
}

func (l *memoryLedger) ListAll(context.Context) ([]model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Booking, 0, len(l.bookings))
	for _, b := range l.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (l *memoryLedger) CreateIfRoom(_ context.Context, booking *model.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.events[booking.EventID]
	if !ok || !e.IsActive {
		return apperrors.ErrEventNotFound
	}
	if e.BookedCount >= e.Capacity {
		return apperrors.ErrEventFull
	}
	key := [2]uuid.UUID{booking.UserID, booking.EventID}
	if _, dup := l.bookings[key]; dup {
		return apperrors.ErrAlreadyBooked
	}
	e.BookedCount++
	l.bookings[key] = *booking
	return nil
}

func (l *memoryLedger) DeleteAndRelease(_ context.Context, userID, eventID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := [2]uuid.UUID{userID, eventID}
	if _, ok := l.bookings[key]; !ok {
		return apperrors.ErrBookingNotFound
	}
	delete(l.bookings, key)
	if e, ok := l.events[eventID]; ok && e.BookedCount > 0 {
		e.BookedCount--
	}
	return nil
}

func newLedgerEvent(capacity int) *model.Event {
	return &model.Event{
		ID:       uuid.New(),
		Name:     "Go Meetup",
		Date:     time.Date(2030, 1, 1, 18, 0, 0, 0, time.UTC),
		Capacity: capacity,
		IsActive: true,
		AgentID:  uuid.New(),
	}
}

func newLedgerService(l *memoryLedger) BookingService {
	return NewBookingService(l, ledgerEvents{l}, nil, nil)
}

func TestBookingService_Book(t *testing.T) {
	booker := Booker{ID: uuid.New(), Email: "u@example.com"}

	tests := []struct {
		name          string
		setup         func() (*memoryLedger, uuid.UUID)
		expectedError error
	}{
		{
			name: "books a free seat",
			setup: func() (*memoryLedger, uuid.UUID) {
				e := newLedgerEvent(2)
				return newMemoryLedger(e), e.ID
			},
		},
		{
			name: "missing event",
			setup: func() (*memoryLedger, uuid.UUID) {
				return newMemoryLedger(), uuid.New()
			},
			expectedError: apperrors.ErrEventNotFound,
		},
		{
			name: "inactive event",
			setup: func() (*memoryLedger, uuid.UUID) {
				e := newLedgerEvent(2)
				e.IsActive = false
				return newMemoryLedger(e), e.ID
			},
			expectedError: apperrors.ErrEventNotFound,
		},
		{
			name: "full event",
			setup: func() (*memoryLedger, uuid.UUID) {
				e := newLedgerEvent(1)
				e.BookedCount = 1
				return newMemoryLedger(e), e.ID
			},
			expectedError: apperrors.ErrEventFull,
		},
		{
			name: "already booked",
			setup: func() (*memoryLedger, uuid.UUID) {
				e := newLedgerEvent(5)
				l := newMemoryLedger(e)
				require.NoError(t, l.CreateIfRoom(context.Background(), &model.Booking{ID: uuid.New(), UserID: booker.ID, EventID: e.ID}))
				return l, e.ID
			},
			expectedError: apperrors.ErrAlreadyBooked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, eventID := tt.setup()
			svc := newLedgerService(l)

			booking, err := svc.Book(context.Background(), booker, eventID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, booking)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, booker.ID, booking.UserID)
			assert.Equal(t, eventID, booking.EventID)
			assert.Equal(t, 1, l.event(eventID).BookedCount)
		})
	}
}

func TestBookingService_ConcurrentLastSeat(t *testing.T) {
	e := newLedgerEvent(1)
	l := newMemoryLedger(e)
	svc := newLedgerService(l)

	const bookers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		full      int
	)
	start := make(chan struct{})
	for i := 0; i < bookers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Book(context.Background(), Booker{ID: uuid.New()}, e.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, apperrors.ErrEventFull):
				full++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, bookers-1, full)
	assert.Equal(t, 1, l.event(e.ID).BookedCount)
}

func TestBookingService_SequentialBookingsStopAtCapacity(t *testing.T) {
	e := newLedgerEvent(3)
	l := newMemoryLedger(e)
	svc := newLedgerService(l)

	for i := 0; i < 3; i++ {
		_, err := svc.Book(context.Background(), Booker{ID: uuid.New()}, e.ID)
		require.NoError(t, err)
	}
	_, err := svc.Book(context.Background(), Booker{ID: uuid.New()}, e.ID)
	assert.ErrorIs(t, err, apperrors.ErrEventFull)
	assert.Equal(t, 3, l.event(e.ID).BookedCount)
}

func TestBookingService_Cancel(t *testing.T) {
	e := newLedgerEvent(2)
	l := newMemoryLedger(e)
	svc := newLedgerService(l)
	booker := Booker{ID: uuid.New()}

	err := svc.Cancel(context.Background(), booker, e.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	assert.Equal(t, 0, l.event(e.ID).BookedCount)

	_, err = svc.Book(context.Background(), booker, e.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), booker, e.ID))
	assert.Equal(t, 0, l.event(e.ID).BookedCount)

	err = svc.Cancel(context.Background(), booker, e.ID)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	assert.Equal(t, 0, l.event(e.ID).BookedCount)
}

func TestBookingService_FullEventReopensAfterCancel(t *testing.T) {
	e := newLedgerEvent(1)
	l := newMemoryLedger(e)
	svc := newLedgerService(l)
	first := Booker{ID: uuid.New()}
	second := Booker{ID: uuid.New()}

	_, err := svc.Book(context.Background(), first, e.ID)
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), second, e.ID)
	require.ErrorIs(t, err, apperrors.ErrEventFull)

	require.NoError(t, svc.Cancel(context.Background(), first, e.ID))
	_, err = svc.Book(context.Background(), second, e.ID)
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), second.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Go Meetup", mine[0].Event.Name)

	mine, err = svc.ListMine(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestBookingService_PublishesLifecycleEvents(t *testing.T) {
	e := newLedgerEvent(2)
	l := newMemoryLedger(e)
	pub := new(MockPublisher)
	booker := Booker{ID: uuid.New(), Email: "u@example.com"}

	pub.On("PublishJSON", mock.Anything, mq.RKBookingCreated, mock.MatchedBy(func(ev mq.BookingEvent) bool {
		return ev.UserEmail == booker.Email && ev.EventName == "Go Meetup" && ev.BookingID != ""
	})).Return(nil).Once()
	pub.On("PublishJSON", mock.Anything, mq.RKBookingCancelled, mock.MatchedBy(func(ev mq.BookingEvent) bool {
		return ev.EventID == e.ID.String() && ev.EventName == "Go Meetup"
	})).Return(assert.AnError).Once()

	svc := NewBookingService(l, ledgerEvents{l}, nil, pub)

	_, err := svc.Book(context.Background(), booker, e.ID)
	require.NoError(t, err)
	// a broker failure does not fail the cancellation
	require.NoError(t, svc.Cancel(context.Background(), booker, e.ID))

	pub.AssertExpectations(t)
}
