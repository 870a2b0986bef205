package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ticketing/internal/model"
	"ticketing/internal/service"
)

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest carries editable profile fields.
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Gender  *string `json:"gender"`
	Contact *string `json:"contact"`
}

// ProfileResponse wraps a user profile.
type ProfileResponse struct {
	Message string      `json:"message,omitempty"`
	User    *model.User `json:"user"`
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, _, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{User: user})
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user/update [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, _, err := caller(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), id, service.ProfileInput{
		Name:    req.Name,
		Email:   req.Email,
		Gender:  req.Gender,
		Contact: req.Contact,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{Message: "Profile updated successfully", User: user})
}
