package routes

const (
	Health = "/health"

	PaymentsStripeWebhook      = "/api/v1/payments/stripe/webhook"
	PaymentsStripeWebhookCheck = "/api/v1/payments/stripe/webhook/check"
	PaymentsCryptoWebhook      = "/api/v1/payments/crypto/webhook"

	Collections            = "/api/v1/collections"
	CollectionAvailability = "/api/v1/collections/{id}/availability"
	CollectionUnits        = "/api/v1/collections/{id}/units"
	CollectionBookings     = "/api/v1/collections/{id}/bookings"
	UnitCapacity           = "/api/v1/units/{id}/capacity"
	UserOwnership          = "/api/v1/users/{id}/ownership"
	UserPayments           = "/api/v1/users/{id}/payments"

	Bookings    = "/api/v1/bookings"
	BookingByID = "/api/v1/bookings/{id}"

	AdminManualPayment   = "/api/v1/admin/payments/manual"
	AdminConfirmBooking  = "/api/v1/admin/bookings/{id}/confirm"
	AdminCompleteBooking = "/api/v1/admin/bookings/{id}/complete"
	AdminCancelBooking   = "/api/v1/admin/bookings/{id}/cancel"
)
