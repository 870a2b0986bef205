package mailer

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	dispatchQueueSize = 100
	sendTimeout       = 30 * time.Second
)

// Dispatcher sends mail out of band so request handlers never wait on SMTP.
type Dispatcher struct {
	mailer Mailer
	queue  chan Message
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDispatcher creates a dispatcher and starts its worker.
func NewDispatcher(m Mailer) *Dispatcher {
	d := &Dispatcher{
		mailer: m,
		queue:  make(chan Message, dispatchQueueSize),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

// Send enqueues msg. When the queue is full the message is dropped and
// logged rather than blocking the caller.
func (d *Dispatcher) Send(_ context.Context, msg Message) error {
	select {
	case d.queue <- msg:
	default:
		log.Printf("mailer: queue full, dropping email to %s", msg.To)
	}
	return nil
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.mailer.Send(ctx, msg); err != nil {
			log.Printf("mailer: %v", err)
		}
		cancel()
	}
}

// Close stops accepting mail and waits for queued messages to be sent.
// Send must not be called after Close.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}
