package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{name: "conflict", err: ErrUserAlreadyExists, wantStatus: http.StatusConflict, wantCode: "USER_ALREADY_EXISTS", wantMsg: "user already exists"},
		{name: "blocked or missing", err: ErrAccountUnavailable, wantStatus: http.StatusForbidden, wantCode: "ACCOUNT_UNAVAILABLE"},
		{name: "expired token", err: ErrTokenExpired, wantStatus: http.StatusForbidden, wantCode: "TOKEN_EXPIRED"},
		{name: "missing token", err: ErrTokenMissing, wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_MISSING"},
		{name: "event full", err: ErrEventFull, wantStatus: http.StatusBadRequest, wantCode: "EVENT_FULL"},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", ErrEventNotFound), wantStatus: http.StatusNotFound, wantCode: "EVENT_NOT_FOUND"},
		{name: "validation detail kept", err: fmt.Errorf("%w: name is required", ErrInvalidEvent), wantStatus: http.StatusBadRequest, wantCode: "INVALID_EVENT", wantMsg: "invalid event: name is required"},
		{name: "internal passthrough", err: errors.New("connection refused"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR", wantMsg: "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, httpErr.Message)
			}
			assert.Equal(t, ErrorResponse{Error: httpErr.Message, Code: tt.wantCode}, httpErr.ToErrorResponse())
		})
	}
}
