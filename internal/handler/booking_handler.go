package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ticketing/internal/model"
	"ticketing/internal/service"
)

// BookingHandler handles booking endpoints.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// BookingResponse represents a booking result.
type BookingResponse struct {
	Message string         `json:"message"`
	Booking *model.Booking `json:"booking"`
}

// Book godoc
// @Summary Book a seat on an event
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /bookings/{eventId} [post]
func (h *BookingHandler) Book(c echo.Context) error {
	userID, email, err := caller(c)
	if err != nil {
		return err
	}
	eventID, err := uuidParam(c, "eventId")
	if err != nil {
		return err
	}

	booking, err := h.bookingService.Book(c.Request().Context(), service.Booker{ID: userID, Email: email}, eventID)
	if err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusCreated, BookingResponse{Message: "Booking successful", Booking: booking})
}

// Cancel godoc
// @Summary Cancel the caller's booking on an event
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /bookings/{eventId} [delete]
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, email, err := caller(c)
	if err != nil {
		return err
	}
	eventID, err := uuidParam(c, "eventId")
	if err != nil {
		return err
	}

	if err := h.bookingService.Cancel(c.Request().Context(), service.Booker{ID: userID, Email: email}, eventID); err != nil {
		return errorResponse(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Booking cancelled"})
}

// ListMine godoc
// @Summary List the caller's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Booking
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /bookings/my [get]
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, _, err := caller(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.ListMine(c.Request().Context(), userID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, bookings)
}
