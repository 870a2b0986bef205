package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ticketing/internal/model"
	"ticketing/internal/service"
)

// AdminHandler handles moderation endpoints.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// UserStatusResponse is returned after a block or unblock.
type UserStatusResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, users)
}

// BlockUser godoc
// @Summary Block a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserStatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/block/{id} [put]
func (h *AdminHandler) BlockUser(c echo.Context) error {
	return h.setStatus(c, model.UserStatusBlocked, "User blocked")
}

// UnblockUser godoc
// @Summary Unblock a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserStatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/unblock/{id} [put]
func (h *AdminHandler) UnblockUser(c echo.Context) error {
	return h.setStatus(c, model.UserStatusActive, "User unblocked")
}

func (h *AdminHandler) setStatus(c echo.Context, status model.UserStatus, message string) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.adminService.SetUserStatus(c.Request().Context(), id, status)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, UserStatusResponse{Message: message, User: user})
}

// ListEvents godoc
// @Summary List all events including inactive ones
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Event
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/events [get]
func (h *AdminHandler) ListEvents(c echo.Context) error {
	events, err := h.adminService.ListEvents(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, events)
}

// ListBookings godoc
// @Summary List all bookings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(c echo.Context) error {
	bookings, err := h.adminService.ListBookings(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, bookings)
}
