package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatusType defines the booking state machine. The forward path is
// PENDING_PAYMENT -> PAYMENT_RECEIVED -> CONFIRMED -> COMPLETED; CANCELLED
// is reachable from any state before COMPLETED.
type BookingStatusType string

const (
	BookingStatusPendingPayment  BookingStatusType = "PENDING_PAYMENT"
	BookingStatusPaymentReceived BookingStatusType = "PAYMENT_RECEIVED"
	BookingStatusConfirmed       BookingStatusType = "CONFIRMED"
	BookingStatusCompleted       BookingStatusType = "COMPLETED"
	BookingStatusCancelled       BookingStatusType = "CANCELLED"
)

// Booking is a time-bound stay against a collection's unit inventory.
// Unit assignment by date is an external collaborator's concern; this
// service only records the assigned unit ids once given them.
type Booking struct {
	Versioned
	ID           uuid.UUID         `json:"id"`
	CollectionID uuid.UUID         `json:"collection_id"`
	GuestUserID  *uuid.UUID        `json:"guest_user_id,omitempty"`
	GuestName    string            `json:"guest_name"`
	GuestEmail   string            `json:"guest_email"`
	CheckIn      time.Time         `json:"check_in"`
	CheckOut     time.Time         `json:"check_out"`
	Guests       int               `json:"guests"`
	TotalCents   int64             `json:"total_cents"`
	Currency     string            `json:"currency"`
	Status       BookingStatusType `json:"status"`
	PaymentID    *uuid.UUID        `json:"payment_id,omitempty"`
	UnitIDs      []uuid.UUID       `json:"unit_ids"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (b *Booking) GetID() string {
	return b.ID.String()
}

// CanTransitionTo enforces the status machine.
func (b *Booking) CanTransitionTo(next BookingStatusType) bool {
	if b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled {
		return false
	}
	if next == BookingStatusCancelled {
		return true
	}
	switch b.Status {
	case BookingStatusPendingPayment:
		return next == BookingStatusPaymentReceived
	case BookingStatusPaymentReceived:
		return next == BookingStatusConfirmed
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted
	}
	return false
}
