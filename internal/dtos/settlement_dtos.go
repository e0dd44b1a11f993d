package dtos

import (
	"github.com/google/uuid"
	"github.com/ownstays/settlement-service/internal/models"
)

// PaymentEvent is the normalized, already-verified payment-completed event
// every rail controller produces. Signature/authenticity checks happen
// before one of these is built.
type PaymentEvent struct {
	Provider      models.PaymentProviderType `json:"provider"`
	ExternalID    string                     `json:"external_id"`
	AmountCents   int64                      `json:"amount_cents"`
	Currency      string                     `json:"currency"`
	Purpose       models.PaymentPurposeType  `json:"purpose"`
	CollectionID  *uuid.UUID                 `json:"collection_id,omitempty"`
	PricingTierID *uuid.UUID                 `json:"pricing_tier_id,omitempty"`
	BookingID     *uuid.UUID                 `json:"booking_id,omitempty"`
	UnitIDs       []uuid.UUID                `json:"unit_ids,omitempty"`
	PayerEmail    string                     `json:"payer_email"`
	PayerName     string                     `json:"payer_name,omitempty"`
	UserID        *uuid.UUID                 `json:"user_id,omitempty"`
	ReferralCode  string                     `json:"referral_code,omitempty"`
}

// SettlementResult is what collaborators (notifiers, the webhook response)
// get back. Duplicate deliveries come back Success with Duplicate set.
type SettlementResult struct {
	Success        bool   `json:"success"`
	Duplicate      bool   `json:"duplicate,omitempty"`
	UnitName       string `json:"unit_name,omitempty"`
	NewUserCreated bool   `json:"new_user_created,omitempty"`
	ErrorKind      string `json:"error_kind,omitempty"`
}

type PaymentListResponse struct {
	Payments []*models.PaymentRecord `json:"payments"`
}

// ManualPaymentRequest is the admin rail's request body: an offline payment
// (wire transfer, cash) the operator has already verified.
type ManualPaymentRequest struct {
	ExternalID    string `json:"external_id" validate:"required"`
	AmountCents   int64  `json:"amount_cents" validate:"required,gt=0"`
	Currency      string `json:"currency" validate:"required,len=3"`
	Purpose       string `json:"purpose" validate:"required,oneof=OWNERSHIP BOOKING"`
	CollectionID  string `json:"collection_id,omitempty" validate:"omitempty,uuid4"`
	PricingTierID string `json:"pricing_tier_id,omitempty" validate:"omitempty,uuid4"`
	BookingID     string `json:"booking_id,omitempty" validate:"omitempty,uuid4"`
	PayerEmail    string `json:"payer_email" validate:"required,email"`
	PayerName     string `json:"payer_name,omitempty"`
	UserID        string `json:"user_id,omitempty" validate:"omitempty,uuid4"`
	ReferralCode  string `json:"referral_code,omitempty"`
}
