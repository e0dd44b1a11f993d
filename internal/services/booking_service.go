package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ownstays/settlement-service/internal/constants"
	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/repositories"
	"github.com/ownstays/settlement-service/internal/utils"
)

// BookingService owns the booking lifecycle outside of payment settlement:
// creation, the admin confirm/complete/cancel transitions, and the cron
// sweep that cancels bookings whose payment never arrived.
type BookingService struct {
	bookingRepo    repositories.BookingRepository
	collectionRepo repositories.CollectionRepository
}

func NewBookingService(bookingRepo repositories.BookingRepository, collectionRepo repositories.CollectionRepository) *BookingService {
	return &BookingService{bookingRepo: bookingRepo, collectionRepo: collectionRepo}
}

func (s *BookingService) CreateBooking(ctx context.Context, req *dtos.CreateBookingRequest) (*models.Booking, error) {
	collectionID, err := uuid.Parse(req.CollectionID)
	if err != nil {
		return nil, utils.ErrCollectionNotFound
	}
	coll, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("collection lookup: %w", err)
	}
	if coll == nil {
		return nil, utils.ErrCollectionNotFound
	}

	b := &models.Booking{
		ID:           uuid.New(),
		CollectionID: collectionID,
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		CheckIn:      req.CheckIn,
		CheckOut:     req.CheckOut,
		Guests:       req.Guests,
		TotalCents:   req.TotalCents,
		Currency:     req.Currency,
		Status:       models.BookingStatusPendingPayment,
	}
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	utils.Logger.Infof("Created booking %s for %s at %s (%s to %s)",
		b.ID, b.GuestEmail, coll.Name, b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"))
	return b, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, utils.ErrBookingNotFound
	}
	return b, nil
}

// ListBookings returns the collection's bookings, check-in order.
func (s *BookingService) ListBookings(ctx context.Context, collectionID uuid.UUID) ([]*models.Booking, error) {
	coll, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("collection lookup: %w", err)
	}
	if coll == nil {
		return nil, utils.ErrCollectionNotFound
	}
	return s.bookingRepo.ListByCollectionID(ctx, collectionID)
}

// Confirm advances PAYMENT_RECEIVED -> CONFIRMED. This is the separate
// confirmation step outside the settlement engine.
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.transition(ctx, id, models.BookingStatusConfirmed)
}

// Complete advances CONFIRMED -> COMPLETED after the stay.
func (s *BookingService) Complete(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.transition(ctx, id, models.BookingStatusCompleted)
}

// Cancel is reachable from any state before COMPLETED.
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.transition(ctx, id, models.BookingStatusCancelled)
}

func (s *BookingService) transition(ctx context.Context, id uuid.UUID, next models.BookingStatusType) (*models.Booking, error) {
	err := s.bookingRepo.UpdateWithRetry(ctx, id, func(b *models.Booking) error {
		if !b.CanTransitionTo(next) {
			return utils.ErrInvalidBookingTransition
		}
		b.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, utils.ErrBookingNotFound
	}
	utils.Logger.Infof("Booking %s transitioned to %s", id, next)
	return b, nil
}

// ExpireStale cancels PENDING_PAYMENT bookings older than the TTL. Runs
// from the hourly cron; each booking goes through the versioned update so
// a payment landing mid-sweep wins.
func (s *BookingService) ExpireStale(ctx context.Context) error {
	olderThanHours := int(constants.StaleBookingTTL / time.Hour)
	stale, err := s.bookingRepo.FindStalePending(ctx, olderThanHours, constants.BookingExpirySweepLimit)
	if err != nil {
		return fmt.Errorf("find stale bookings: %w", err)
	}

	var cancelled int
	for _, b := range stale {
		err := s.bookingRepo.UpdateWithRetry(ctx, b.ID, func(cur *models.Booking) error {
			// Re-check under the version guard: a concurrent settlement
			// may have advanced the booking since the listing.
			if cur.Status != models.BookingStatusPendingPayment {
				return nil
			}
			cur.Status = models.BookingStatusCancelled
			return nil
		})
		if err != nil {
			utils.Logger.WithError(err).Errorf("Failed to expire booking %s", b.ID)
			continue
		}
		cancelled++
	}
	if cancelled > 0 {
		utils.Logger.Infof("Expired %d stale pending bookings", cancelled)
	}
	return nil
}
