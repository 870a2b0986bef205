package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		claims  *Claims
		op      Operation
		wantErr error
	}{
		{name: "no claims", claims: nil, op: OpBookEvent, wantErr: apperrors.ErrNoRole},
		{name: "empty role", claims: &Claims{}, op: OpBookEvent, wantErr: apperrors.ErrNoRole},
		{name: "unknown role", claims: &Claims{Role: "Superuser"}, op: OpModerate, wantErr: apperrors.ErrNoRole},
		{name: "user books", claims: &Claims{Role: model.RoleUser}, op: OpBookEvent},
		{name: "admin books", claims: &Claims{Role: model.RoleAdmin}, op: OpBookEvent},
		{name: "agent cannot book", claims: &Claims{Role: model.RoleAgent}, op: OpBookEvent, wantErr: apperrors.ErrNoPermission},
		{name: "agent creates event", claims: &Claims{Role: model.RoleAgent}, op: OpCreateEvent},
		{name: "user cannot create event", claims: &Claims{Role: model.RoleUser}, op: OpCreateEvent, wantErr: apperrors.ErrNoPermission},
		{name: "admin moderates", claims: &Claims{Role: model.RoleAdmin}, op: OpModerate},
		{name: "agent cannot moderate", claims: &Claims{Role: model.RoleAgent}, op: OpModerate, wantErr: apperrors.ErrNoPermission},
		{name: "undeclared operation", claims: &Claims{Role: model.RoleAdmin}, op: Operation("nope"), wantErr: apperrors.ErrNoPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.claims, tt.op)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
