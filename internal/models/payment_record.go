package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentProviderType identifies the rail a payment arrived on.
type PaymentProviderType string

const (
	PaymentProviderStripe   PaymentProviderType = "STRIPE"
	PaymentProviderCoinbase PaymentProviderType = "COINBASE"
	PaymentProviderManual   PaymentProviderType = "MANUAL"
)

// PaymentPurposeType routes a payment event to one of the two
// settlement engines.
type PaymentPurposeType string

const (
	PaymentPurposeOwnership PaymentPurposeType = "OWNERSHIP"
	PaymentPurposeBooking   PaymentPurposeType = "BOOKING"
)

// PaymentStatusType - only verified, successful payments ever reach the
// settlement engines, so SUCCESS is terminal for this service.
type PaymentStatusType string

const (
	PaymentStatusSuccess PaymentStatusType = "SUCCESS"
)

// PaymentRecord is one row per externally-verified payment attempt.
// ExternalID is the provider-assigned transaction identifier and the
// idempotency key: its DB uniqueness constraint is what absorbs webhook
// retries and duplicate deliveries.
type PaymentRecord struct {
	ID            uuid.UUID           `json:"id"`
	Provider      PaymentProviderType `json:"provider"`
	ExternalID    string              `json:"external_id"`
	UserID        uuid.UUID           `json:"user_id"`
	AmountCents   int64               `json:"amount_cents"`
	Currency      string              `json:"currency"`
	Purpose       PaymentPurposeType  `json:"purpose"`
	Status        PaymentStatusType   `json:"status"`
	CollectionID  *uuid.UUID          `json:"collection_id,omitempty"`
	PricingTierID *uuid.UUID          `json:"pricing_tier_id,omitempty"`
	BookingID     *uuid.UUID          `json:"booking_id,omitempty"`
	AffiliateID   *uuid.UUID          `json:"affiliate_id,omitempty"`
	ProcessedAt   time.Time           `json:"processed_at"`
}
