package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"ticketing/internal/auth"
	"ticketing/internal/config"
	"ticketing/internal/handler"
	authmw "ticketing/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	verifier authmw.TokenVerifier,
	authHandler *handler.AuthHandler,
	eventHandler *handler.EventHandler,
	bookingHandler *handler.BookingHandler,
	adminHandler *handler.AdminHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	// Public routes
	authGroup := e.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/reset-password", authHandler.ResetPassword)
	authGroup.GET("/verify-email/:token", authHandler.VerifyEmail)

	jwt := authmw.JWT(verifier)

	events := e.Group("/events")
	events.GET("", eventHandler.ListEvents)
	events.GET("/:id", eventHandler.GetEvent)
	events.POST("", eventHandler.CreateEvent, jwt, authmw.RequireRole(auth.OpCreateEvent))
	events.PUT("/:id", eventHandler.UpdateEvent, jwt, authmw.RequireRole(auth.OpUpdateEvent))
	events.DELETE("/:id", eventHandler.DeleteEvent, jwt, authmw.RequireRole(auth.OpDeleteEvent))

	bookings := e.Group("/bookings", jwt)
	bookings.GET("/my", bookingHandler.ListMine, authmw.RequireRole(auth.OpListBookings))
	bookings.POST("/:eventId", bookingHandler.Book, authmw.RequireRole(auth.OpBookEvent))
	bookings.DELETE("/:eventId", bookingHandler.Cancel, authmw.RequireRole(auth.OpCancelBook))

	admin := e.Group("/admin", jwt, authmw.RequireRole(auth.OpModerate))
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/block/:id", adminHandler.BlockUser)
	admin.PUT("/users/unblock/:id", adminHandler.UnblockUser)
	admin.GET("/events", adminHandler.ListEvents)
	admin.GET("/bookings", adminHandler.ListBookings)

	user := e.Group("/user", jwt)
	user.GET("/profile", userHandler.GetProfile)
	user.PUT("/update", userHandler.UpdateProfile)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
