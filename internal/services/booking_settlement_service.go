package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ownstays/settlement-service/internal/dtos"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/repositories"
	"github.com/ownstays/settlement-service/internal/utils"
)

// BookingSettlementService is the sibling engine for stay bookings: it
// consumes a verified payment event, links the payment to the booking,
// records the unit assignment handed over by the availability collaborator
// and advances the booking to PAYMENT_RECEIVED. Idempotency rides on the
// same external-id uniqueness as ownership settlement.
type BookingSettlementService struct {
	paymentRepo repositories.PaymentRepository
	bookingRepo repositories.BookingRepository
	userRepo    repositories.UserRepository
}

func NewBookingSettlementService(
	paymentRepo repositories.PaymentRepository,
	bookingRepo repositories.BookingRepository,
	userRepo repositories.UserRepository,
) *BookingSettlementService {
	return &BookingSettlementService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

func (s *BookingSettlementService) Settle(ctx context.Context, ev *dtos.PaymentEvent) (*dtos.SettlementResult, error) {
	// Idempotency gate, same contract as ownership settlement.
	existing, err := s.paymentRepo.GetByExternalID(ctx, ev.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup for %q: %w", ev.ExternalID, err)
	}
	if existing != nil {
		utils.Logger.Infof("Duplicate booking payment event %s; already applied, skipping", ev.ExternalID)
		return &dtos.SettlementResult{Success: true, Duplicate: true}, nil
	}

	if ev.BookingID == nil {
		return failure(utils.ErrBookingNotFound), utils.ErrBookingNotFound
	}
	booking, err := s.bookingRepo.GetByID(ctx, *ev.BookingID)
	if err != nil {
		return nil, fmt.Errorf("booking lookup: %w", err)
	}
	if booking == nil {
		utils.Logger.Errorf("Payment %s references unknown booking %s", ev.ExternalID, ev.BookingID)
		return failure(utils.ErrBookingNotFound), utils.ErrBookingNotFound
	}

	// Resolve the paying identity; fall back to the booking's guest email
	// when the event carries none.
	email := ev.PayerEmail
	if email == "" {
		email = booking.GuestEmail
	}
	user, newUser, err := resolveOrCreateByEmail(ctx, s.userRepo, email, booking.GuestName)
	if err != nil {
		return failure(err), err
	}

	payment := &models.PaymentRecord{
		ID:           uuid.New(),
		Provider:     ev.Provider,
		ExternalID:   ev.ExternalID,
		UserID:       user.ID,
		AmountCents:  ev.AmountCents,
		Currency:     ev.Currency,
		Purpose:      models.PaymentPurposeBooking,
		Status:       models.PaymentStatusSuccess,
		CollectionID: &booking.CollectionID,
		BookingID:    &booking.ID,
		ProcessedAt:  time.Now().UTC(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, utils.ErrDuplicateEvent) {
			utils.Logger.Infof("Concurrent duplicate of booking payment event %s; other delivery won", ev.ExternalID)
			return &dtos.SettlementResult{Success: true, Duplicate: true}, nil
		}
		return nil, fmt.Errorf("persist payment record %q: %w", ev.ExternalID, err)
	}

	// Link the payment, record the unit assignment and advance the status
	// machine. The versioned update absorbs races with the admin and
	// expiry paths; a booking already past PENDING_PAYMENT is left alone.
	err = s.bookingRepo.UpdateWithRetry(ctx, booking.ID, func(b *models.Booking) error {
		if b.PaymentID == nil {
			b.PaymentID = &payment.ID
		}
		if len(ev.UnitIDs) > 0 {
			b.UnitIDs = ev.UnitIDs
		}
		if b.GuestUserID == nil {
			b.GuestUserID = &user.ID
		}
		if b.CanTransitionTo(models.BookingStatusPaymentReceived) {
			b.Status = models.BookingStatusPaymentReceived
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("advance booking %s after payment %q: %w", booking.ID, ev.ExternalID, err)
	}

	utils.Logger.Infof("Settled booking payment %s: booking %s now PAYMENT_RECEIVED (new_user=%t)",
		ev.ExternalID, booking.ID, newUser)

	return &dtos.SettlementResult{Success: true, NewUserCreated: newUser}, nil
}
