package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ticketing/internal/config"
	"ticketing/internal/mailer"
	"ticketing/internal/mq"
	"ticketing/internal/notifier"
)

const (
	queueName   = "booking.notifications"
	consumerTag = "ticketing-notifier"
)

func main() {
	cfg := config.Load()
	if cfg.RabbitURL == "" {
		log.Println("RABBIT_URL is not set, nothing to consume")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := mq.NewConsumer(cfg.RabbitURL, mq.BookingExchange, queueName,
		[]string{mq.RKBookingCreated, mq.RKBookingCancelled}, 8)
	if err != nil {
		log.Fatalf("consumer init: %v", err)
	}
	defer consumer.Close()

	deliveries, err := consumer.Deliveries(ctx, consumerTag)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	smtpMailer := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.FromEmail,
	})

	log.Printf("notifier listening on %s", queueName)
	if err := notifier.NewWorker(smtpMailer).Run(ctx, deliveries); err != nil {
		log.Printf("notifier stopped: %v", err)
	}
	log.Println("notifier shut down")
}
