package models

import (
	"time"

	"github.com/google/uuid"
)

// AffiliateLink maps a public referral code to an affiliate. Settlement
// only resolves the code to an id for attribution; unknown or absent codes
// resolve to none rather than failing the payment.
type AffiliateLink struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}
