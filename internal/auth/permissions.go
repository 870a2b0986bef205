package auth

import (
	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
)

// Operation names a guarded action.
type Operation string

const (
	OpBookEvent    Operation = "booking.create"
	OpCancelBook   Operation = "booking.cancel"
	OpListBookings Operation = "booking.list_mine"
	OpCreateEvent  Operation = "event.create"
	OpUpdateEvent  Operation = "event.update"
	OpDeleteEvent  Operation = "event.delete"
	OpModerate     Operation = "admin.moderate"
)

var permissions = map[Operation][]model.Role{
	OpBookEvent:    {model.RoleUser, model.RoleAdmin},
	OpCancelBook:   {model.RoleUser, model.RoleAdmin},
	OpListBookings: {model.RoleUser, model.RoleAdmin},
	OpCreateEvent:  {model.RoleAgent, model.RoleAdmin},
	OpUpdateEvent:  {model.RoleAgent, model.RoleAdmin},
	OpDeleteEvent:  {model.RoleAgent, model.RoleAdmin},
	OpModerate:     {model.RoleAdmin},
}

// Allowed returns the roles permitted to perform op.
func Allowed(op Operation) []model.Role {
	return permissions[op]
}

// Authorize checks the verified claims against the permission table. It has
// no side effects.
func Authorize(claims *Claims, op Operation) error {
	if claims == nil || !claims.Role.Valid() {
		return apperrors.ErrNoRole
	}
	for _, r := range permissions[op] {
		if r == claims.Role {
			return nil
		}
	}
	return apperrors.ErrNoPermission
}
