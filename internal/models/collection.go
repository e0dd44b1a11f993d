package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection groups the individually-allocatable units of one resort
// property. Units in a collection share a pricing schedule.
type Collection struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}
