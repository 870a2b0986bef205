package mq

import (
	"encoding/json"
	"fmt"
	"time"
)

// BookingExchange is the topic exchange booking lifecycle events go to.
const BookingExchange = "booking.exchange"

// Routing keys.
const (
	RKBookingCreated   = "booking.created"
	RKBookingCancelled = "booking.cancelled"
)

// BookingEvent carries enough to notify the booker.
type BookingEvent struct {
	BookingID  string    `json:"booking_id,omitempty"`
	UserID     string    `json:"user_id"`
	UserEmail  string    `json:"user_email"`
	EventID    string    `json:"event_id"`
	EventName  string    `json:"event_name"`
	EventDate  time.Time `json:"event_date"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Decode unmarshals a message body into T.
func Decode[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
