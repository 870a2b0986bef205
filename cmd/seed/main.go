package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"ticketing/internal/auth"
	"ticketing/internal/config"
	"ticketing/internal/db"
	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
	"ticketing/internal/repository"
	"ticketing/internal/service"
)

const demoAgentEmail = "agent@example.com"

type demoEvent struct {
	Name     string
	Category string
	Location string
	Price    string
	Capacity int
	InDays   int
}

var demoEvents = []demoEvent{
	{Name: "Jazz on the Pier", Category: "Music", Location: "Harbour Stage", Price: "25.00", Capacity: 150, InDays: 14},
	{Name: "Go Workshop", Category: "Tech", Location: "Innovation Hub", Price: "0", Capacity: 30, InDays: 7},
	{Name: "City Marathon", Category: "Sports", Location: "Central Park", Price: "40.00", Capacity: 500, InDays: 45},
	{Name: "Street Food Festival", Category: "Food", Location: "Old Market Square", Price: "5.00", Capacity: 300, InDays: 21},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	authService := service.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret, cfg.JWTRefreshSecret), nil, cfg.FrontendURL)
	eventService := service.NewEventService(eventRepo, nil)
	ctx := context.Background()

	if err := ensureUser(ctx, authService, "Administrator", cfg.SeedAdminEmail, cfg.SeedAdminPassword, model.RoleAdmin); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if err := ensureUser(ctx, authService, "Demo Agent", demoAgentEmail, cfg.SeedAdminPassword, model.RoleAgent); err != nil {
		log.Fatalf("Failed to seed agent: %v", err)
	}

	agent, err := userRepo.FindByEmail(ctx, demoAgentEmail)
	if err != nil {
		log.Fatalf("Failed to load agent: %v", err)
	}

	existing, err := eventRepo.ListAll(ctx)
	if err != nil {
		log.Fatalf("Failed to list events: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Found %d events, skipping demo events", len(existing))
		return
	}

	seeded, err := seedEvents(ctx, eventService, agent, demoEvents)
	if err != nil {
		log.Fatalf("Failed to seed events: %v", err)
	}
	log.Printf("Seed completed successfully!")
	log.Printf("  - Demo events created: %d", seeded)
}

// ensureUser signs up the account unless the email is already registered.
func ensureUser(ctx context.Context, authService service.AuthService, name, email, password string, role model.Role) error {
	_, err := authService.Signup(ctx, name, email, password, string(role))
	if errors.Is(err, apperrors.ErrUserAlreadyExists) {
		log.Printf("  - %s %s already exists", role, email)
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("  - %s %s created", role, email)
	return nil
}

func seedEvents(ctx context.Context, eventService service.EventService, agent *model.User, events []demoEvent) (int, error) {
	seeded := 0
	for _, ev := range events {
		price, err := decimal.NewFromString(ev.Price)
		if err != nil {
			return seeded, fmt.Errorf("invalid price for %s: %w", ev.Name, err)
		}
		name, category, location, capacity := ev.Name, ev.Category, ev.Location, ev.Capacity
		date := time.Now().AddDate(0, 0, ev.InDays).Truncate(time.Hour)

		if _, err := eventService.CreateEvent(ctx, agent.ID, service.EventInput{
			Name:     &name,
			Date:     &date,
			Category: &category,
			Location: &location,
			Price:    &price,
			Capacity: &capacity,
		}); err != nil {
			return seeded, fmt.Errorf("error creating event %s: %w", ev.Name, err)
		}
		seeded++
	}
	return seeded, nil
}
