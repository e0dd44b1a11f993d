package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/utils"
)

func newBookingServiceFixture(t *testing.T) (*BookingService, *fakeBookingRepo, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	collections := newFakeCollectionRepo()
	collectionID := uuid.New()
	require.NoError(t, collections.Create(ctx, &models.Collection{ID: collectionID, Name: "Reef Villas"}))

	bookings := newFakeBookingRepo()
	return NewBookingService(bookings, collections), bookings, collectionID
}

func createBookingRequest(collectionID uuid.UUID) *dtos.CreateBookingRequest {
	return &dtos.CreateBookingRequest{
		CollectionID: collectionID.String(),
		GuestName:    "First Guest",
		GuestEmail:   "guest@example.com",
		CheckIn:      time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2026, 10, 8, 10, 0, 0, 0, time.UTC),
		Guests:       2,
		TotalCents:   240000,
		Currency:     "USD",
	}
}

func TestCreateBookingStartsPendingPayment(t *testing.T) {
	ctx := context.Background()
	svc, _, collectionID := newBookingServiceFixture(t)

	b, err := svc.CreateBooking(ctx, createBookingRequest(collectionID))
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPendingPayment, b.Status)
	require.Equal(t, collectionID, b.CollectionID)

	got, err := svc.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)
}

func TestCreateBookingUnknownCollection(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBookingServiceFixture(t)

	_, err := svc.CreateBooking(ctx, createBookingRequest(uuid.New()))
	require.ErrorIs(t, err, utils.ErrCollectionNotFound)
}

func TestBookingLifecycleTransitions(t *testing.T) {
	ctx := context.Background()
	svc, bookings, collectionID := newBookingServiceFixture(t)

	b, err := svc.CreateBooking(ctx, createBookingRequest(collectionID))
	require.NoError(t, err)

	// Confirm requires PAYMENT_RECEIVED first.
	_, err = svc.Confirm(ctx, b.ID)
	require.ErrorIs(t, err, utils.ErrInvalidBookingTransition)

	require.NoError(t, bookings.UpdateWithRetry(ctx, b.ID, func(cur *models.Booking) error {
		cur.Status = models.BookingStatusPaymentReceived
		return nil
	}))

	confirmed, err := svc.Confirm(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	completed, err := svc.Complete(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusCompleted, completed.Status)

	// COMPLETED is terminal; even cancel is rejected.
	_, err = svc.Cancel(ctx, b.ID)
	require.ErrorIs(t, err, utils.ErrInvalidBookingTransition)
}

func TestBookingCancelFromPending(t *testing.T) {
	ctx := context.Background()
	svc, _, collectionID := newBookingServiceFixture(t)

	b, err := svc.CreateBooking(ctx, createBookingRequest(collectionID))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	// Cancelling twice is an invalid transition.
	_, err = svc.Cancel(ctx, b.ID)
	require.ErrorIs(t, err, utils.ErrInvalidBookingTransition)
}

func TestExpireStaleCancelsOnlyOldPending(t *testing.T) {
	ctx := context.Background()
	svc, bookings, collectionID := newBookingServiceFixture(t)

	stale, err := svc.CreateBooking(ctx, createBookingRequest(collectionID))
	require.NoError(t, err)
	fresh, err := svc.CreateBooking(ctx, createBookingRequest(collectionID))
	require.NoError(t, err)
	paid, err := svc.CreateBooking(ctx, createBookingRequest(collectionID))
	require.NoError(t, err)

	// Backdate two of them past the TTL; the paid one already advanced.
	threeDaysAgo := time.Now().Add(-72 * time.Hour)
	require.NoError(t, bookings.UpdateWithRetry(ctx, stale.ID, func(cur *models.Booking) error {
		cur.CreatedAt = threeDaysAgo
		return nil
	}))
	require.NoError(t, bookings.UpdateWithRetry(ctx, paid.ID, func(cur *models.Booking) error {
		cur.CreatedAt = threeDaysAgo
		cur.Status = models.BookingStatusPaymentReceived
		return nil
	}))

	require.NoError(t, svc.ExpireStale(ctx))

	got, err := svc.GetBooking(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusCancelled, got.Status)

	got, err = svc.GetBooking(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPendingPayment, got.Status)

	got, err = svc.GetBooking(ctx, paid.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPaymentReceived, got.Status)
}
