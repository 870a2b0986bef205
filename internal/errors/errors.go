package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserAlreadyExists is returned when signing up with a registered email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrAccountUnavailable is returned when the login email is unknown or the
	// account is blocked. Both cases share one message.
	ErrAccountUnavailable = errors.New("account disabled or not found")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRefreshTokenRequired is returned when refresh or logout is called without a token.
	ErrRefreshTokenRequired = errors.New("refresh token required")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrInvalidResetToken is returned when no user holds the password reset token.
	ErrInvalidResetToken = errors.New("invalid token")
	// ErrInvalidVerificationToken is returned when no user holds the email verification token.
	ErrInvalidVerificationToken = errors.New("invalid verification token")

	// ErrTokenMissing is returned when a request carries no bearer token.
	ErrTokenMissing = errors.New("no token provided")
	// ErrTokenExpired is returned when an access token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned when an access token fails verification.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrNoRole is returned when a verified identity carries no usable role.
	ErrNoRole = errors.New("forbidden: no user role")
	// ErrNoPermission is returned when the caller's role is not allowed.
	ErrNoPermission = errors.New("forbidden: no permission")
	// ErrNotOwner is returned when an agent touches another agent's event.
	ErrNotOwner = errors.New("forbidden")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEventNotFound is returned when an event is missing or inactive.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventFull is returned when an event has no seats left.
	ErrEventFull = errors.New("event full")
	// ErrAlreadyBooked is returned when the user already holds a booking for the event.
	ErrAlreadyBooked = errors.New("already booked")
	// ErrBookingNotFound is returned when cancelling a booking that does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrInvalidCapacity is returned when an event capacity is not positive
	// or falls below the seats already booked.
	ErrInvalidCapacity = errors.New("capacity must be a positive integer not below booked seats")
	// ErrInvalidEvent is returned when event fields fail validation.
	ErrInvalidEvent = errors.New("invalid event")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mapping = []struct {
	err    error
	status int
	code   string
}{
	{ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
	{ErrAccountUnavailable, http.StatusForbidden, "ACCOUNT_UNAVAILABLE"},
	{ErrInvalidCredentials, http.StatusForbidden, "INVALID_CREDENTIALS"},
	{ErrRefreshTokenRequired, http.StatusBadRequest, "REFRESH_TOKEN_REQUIRED"},
	{ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{ErrInvalidResetToken, http.StatusBadRequest, "INVALID_RESET_TOKEN"},
	{ErrInvalidVerificationToken, http.StatusBadRequest, "INVALID_VERIFICATION_TOKEN"},
	{ErrTokenMissing, http.StatusUnauthorized, "TOKEN_MISSING"},
	{ErrTokenExpired, http.StatusForbidden, "TOKEN_EXPIRED"},
	{ErrTokenInvalid, http.StatusForbidden, "INVALID_TOKEN"},
	{ErrNoRole, http.StatusForbidden, "NO_ROLE"},
	{ErrNoPermission, http.StatusForbidden, "NO_PERMISSION"},
	{ErrNotOwner, http.StatusForbidden, "NOT_OWNER"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrEventNotFound, http.StatusNotFound, "EVENT_NOT_FOUND"},
	{ErrEventFull, http.StatusBadRequest, "EVENT_FULL"},
	{ErrAlreadyBooked, http.StatusBadRequest, "ALREADY_BOOKED"},
	{ErrBookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND"},
	{ErrInvalidCapacity, http.StatusBadRequest, "INVALID_CAPACITY"},
	{ErrInvalidEvent, http.StatusBadRequest, "INVALID_EVENT"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// 500 carrying the original message.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mapping {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
}
