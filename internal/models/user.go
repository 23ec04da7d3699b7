package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a persisted account record. ID is assigned at creation and never
// changes; CreatedAt and UpdatedAt are assigned by the database, with
// UpdatedAt refreshed by a trigger on every row mutation.
type User struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	Hash    string    `json:"-"`
	IsAdmin bool      `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateUser is a partial-update request. Nil fields are left untouched;
// if both are nil the update is a no-op that still returns the current row.
// IsAdmin is deliberately absent: it is not settable through this path.
type UpdateUser struct {
	Email    *string         `json:"email,omitempty"`
	Password *PasswordUpdate `json:"password,omitempty"`
}

// PasswordUpdate carries the caller-asserted current password and the
// desired new one. OldPassword must verify against the stored hash before
// the change is applied.
type PasswordUpdate struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
