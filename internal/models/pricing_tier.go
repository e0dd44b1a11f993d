package models

import (
	"time"

	"github.com/google/uuid"
)

// PricingTier is one purchasable ownership size for a collection,
// e.g. 500 basis points (5%) at a USD and EUR price. A tier is
// purchasable only while Active and while the evaluation time falls
// inside the effective window; a nil boundary means unbounded on
// that side.
type PricingTier struct {
	ID             uuid.UUID  `json:"id"`
	CollectionID   uuid.UUID  `json:"collection_id"`
	BasisPoints    int        `json:"basis_points"`
	PriceUSDCents  int64      `json:"price_usd_cents"`
	PriceEURCents  int64      `json:"price_eur_cents"`
	Label          string     `json:"label"`
	Active         bool       `json:"active"`
	EffectiveFrom  *time.Time `json:"effective_from,omitempty"`
	EffectiveUntil *time.Time `json:"effective_until,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// PurchasableAt reports whether the tier can be sold at the given
// evaluation time. The time is always passed in explicitly so the
// window logic stays testable with fixed clocks.
func (t *PricingTier) PurchasableAt(at time.Time) bool {
	if !t.Active {
		return false
	}
	if t.EffectiveFrom != nil && at.Before(*t.EffectiveFrom) {
		return false
	}
	if t.EffectiveUntil != nil && !at.Before(*t.EffectiveUntil) {
		return false
	}
	return true
}
