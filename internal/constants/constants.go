package constants

import "time"

// Full ownership of one unit, expressed in basis points.
const FullOwnershipBasisPoints = 10000

// Webhook metadata keys. Every rail carries the same keys so the
// controllers can build one normalized payment event.
const (
	WebhookMetadataPurposeKey       = "purpose"
	WebhookMetadataCollectionIDKey  = "collection_id"
	WebhookMetadataPricingTierIDKey = "pricing_tier_id"
	WebhookMetadataBookingIDKey     = "booking_id"
	WebhookMetadataUserIDKey        = "user_id"
	WebhookMetadataReferralCodeKey  = "referral_code"
	WebhookMetadataUnitIDsKey       = "unit_ids"
	WebhookMetadataGeneratedByKey   = "generated_by"
)

// Coinbase-Commerce-style webhook
const (
	CryptoSignatureHeader    = "X-CC-Webhook-Signature"
	CryptoEventTypeConfirmed = "charge:confirmed"
)

// Booking expiry sweep
const (
	// PENDING_PAYMENT bookings older than this are cancelled by the sweep.
	StaleBookingTTL = 48 * time.Hour

	BookingExpiryCronSpec   = "0 * * * *" // hourly
	BookingExpirySweepLimit = 500
	BookingExpiryJobTimeout = 2 * time.Minute
)
