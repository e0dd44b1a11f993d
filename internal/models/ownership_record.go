package models

import (
	"time"

	"github.com/google/uuid"
)

// OwnershipRecord is an immutable fact: this user owns this many basis
// points of this unit, paid for by this payment. Records are append-only;
// for every unit the sum of BasisPoints across its records must stay at or
// below FullOwnershipBasisPoints (10000) at all times.
type OwnershipRecord struct {
	ID          uuid.UUID `json:"id"`
	UnitID      uuid.UUID `json:"unit_id"`
	UserID      uuid.UUID `json:"user_id"`
	BasisPoints int       `json:"basis_points"`
	PaymentID   uuid.UUID `json:"payment_id"`
	CreatedAt   time.Time `json:"created_at"`
}
