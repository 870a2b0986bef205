package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"ticketing/docs"
	"ticketing/internal/auth"
	"ticketing/internal/cache"
	"ticketing/internal/config"
	"ticketing/internal/db"
	"ticketing/internal/handler"
	"ticketing/internal/mailer"
	"ticketing/internal/mq"
	"ticketing/internal/repository"
	"ticketing/internal/router"
	"ticketing/internal/service"
)

// @title Event Ticketing API
// @version 1.0
// @description Event ticketing API with bookings, agent-managed events, moderation and JWT authentication.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		log.Printf("redis unavailable, event cache disabled: %v", err)
		_ = cacheClient.Close()
		cacheClient = nil
	}
	defer cacheClient.Close()

	var publisher mq.EventPublisher = mq.NopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := mq.NewPublisher(cfg.RabbitURL, mq.BookingExchange)
		if err != nil {
			log.Printf("rabbitmq unavailable, booking events disabled: %v", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	smtpMailer := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.FromEmail,
	})
	if !smtpMailer.Configured() {
		log.Println("SMTP not configured, outgoing mail will be skipped")
	}
	dispatcher := mailer.NewDispatcher(smtpMailer)
	defer dispatcher.Close()

	images, err := handler.NewImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTRefreshSecret)
	authService := service.NewAuthService(userRepo, jwtService, dispatcher, cfg.FrontendURL)
	eventService := service.NewEventService(eventRepo, cacheClient)
	bookingService := service.NewBookingService(bookingRepo, eventRepo, cacheClient, publisher)
	adminService := service.NewAdminService(userRepo, eventRepo, bookingRepo)
	userService := service.NewUserService(userRepo)

	e := echo.New()
	router.Register(
		e,
		cfg,
		authService,
		handler.NewAuthHandler(authService),
		handler.NewEventHandler(eventService, images),
		handler.NewBookingHandler(bookingService),
		handler.NewAdminHandler(adminService),
		handler.NewUserHandler(userService),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
