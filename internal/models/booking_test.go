package models

import "testing"

func TestBookingCanTransitionTo(t *testing.T) {
	cases := []struct {
		from BookingStatusType
		to   BookingStatusType
		want bool
	}{
		{BookingStatusPendingPayment, BookingStatusPaymentReceived, true},
		{BookingStatusPaymentReceived, BookingStatusConfirmed, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},

		// Cancellation is reachable from every non-terminal state.
		{BookingStatusPendingPayment, BookingStatusCancelled, true},
		{BookingStatusPaymentReceived, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},

		// No skipping forward.
		{BookingStatusPendingPayment, BookingStatusConfirmed, false},
		{BookingStatusPendingPayment, BookingStatusCompleted, false},
		{BookingStatusPaymentReceived, BookingStatusCompleted, false},

		// No moving backward.
		{BookingStatusPaymentReceived, BookingStatusPendingPayment, false},
		{BookingStatusConfirmed, BookingStatusPaymentReceived, false},

		// Terminal states accept nothing.
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusPaymentReceived, false},
		{BookingStatusCancelled, BookingStatusCancelled, false},
	}

	for _, c := range cases {
		b := &Booking{Status: c.from}
		if got := b.CanTransitionTo(c.to); got != c.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
