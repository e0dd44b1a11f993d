package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit is one physical resort unit inside a collection. Position is the
// creation-order tie-break used by sequential fill: lower positions are
// filled to capacity before higher ones are opened. Units are never
// deleted once any ownership exists against them.
type Unit struct {
	ID           uuid.UUID `json:"id"`
	CollectionID uuid.UUID `json:"collection_id"`
	Name         string    `json:"name"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}
