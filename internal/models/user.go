package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a paying identity. Accounts are resolved-or-created by payer
// email during settlement, so a checkout never fails on a missing account.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}
