package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"ticketing/internal/mailer"
	"ticketing/internal/mq"
)

// ErrMalformed marks a message that can never be processed. Such messages
// are dropped instead of requeued.
var ErrMalformed = errors.New("malformed message")

// Worker turns booking lifecycle events into emails to the booker.
type Worker struct {
	mailer mailer.Mailer
}

// NewWorker creates a notification worker.
func NewWorker(m mailer.Mailer) *Worker {
	return &Worker{mailer: m}
}

// Run consumes deliveries until ctx is done or the channel closes. Failed
// messages are nacked and requeued unless malformed.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			if err := w.Handle(ctx, d.RoutingKey, d.Body); err != nil {
				requeue := !errors.Is(err, ErrMalformed)
				log.Printf("notifier: handle error key=%s err=%v requeue=%t", d.RoutingKey, err, requeue)
				_ = d.Nack(false, requeue)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle processes a single message body.
func (w *Worker) Handle(ctx context.Context, key string, body []byte) error {
	switch key {
	case mq.RKBookingCreated:
		ev, err := mq.Decode[mq.BookingEvent](body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return w.mailer.Send(ctx, mailer.Message{
			To:      ev.UserEmail,
			Subject: "Your booking is confirmed",
			HTML: fmt.Sprintf("<p>Your seat for <b>%s</b> on %s is booked.</p>",
				html.EscapeString(ev.EventName), ev.EventDate.Format("2006-01-02 15:04")),
		})

	case mq.RKBookingCancelled:
		ev, err := mq.Decode[mq.BookingEvent](body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return w.mailer.Send(ctx, mailer.Message{
			To:      ev.UserEmail,
			Subject: "Your booking was cancelled",
			HTML:    fmt.Sprintf("<p>Your booking for <b>%s</b> has been cancelled.</p>", html.EscapeString(ev.EventName)),
		})

	default:
		log.Printf("notifier: skip unknown key=%s", key)
	}
	return nil
}
