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

// OwnershipSettlementService applies a verified payment-completed event to
// the ownership ledger exactly once. The external transaction id is the
// idempotency key: webhook retries and duplicate deliveries hit the gate
// (or the DB uniqueness constraint underneath it) and come back as
// successful no-ops.
type OwnershipSettlementService struct {
	paymentRepo    repositories.PaymentRepository
	userRepo       repositories.UserRepository
	affiliateRepo  repositories.AffiliateLinkRepository
	tierRepo       repositories.PricingTierRepository
	collectionRepo repositories.CollectionRepository
	allocation     *AllocationService
}

func NewOwnershipSettlementService(
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	affiliateRepo repositories.AffiliateLinkRepository,
	tierRepo repositories.PricingTierRepository,
	collectionRepo repositories.CollectionRepository,
	allocation *AllocationService,
) *OwnershipSettlementService {
	return &OwnershipSettlementService{
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		affiliateRepo:  affiliateRepo,
		tierRepo:       tierRepo,
		collectionRepo: collectionRepo,
		allocation:     allocation,
	}
}

// Settle runs the ownership settlement state machine. The returned result
// is always usable by the caller; the error, when non-nil, carries the
// sentinel for logging/alerting. Ordering matters: identity, referral and
// pricing resolve before the PaymentRecord is written, so a request that
// can never be fulfilled leaves no payment row. Allocation is the one
// deliberate exception - it runs after the payment row exists, so a
// sold-out race leaves a paid-but-unallocated record that is surfaced for
// manual reconciliation, never silently retried.
func (s *OwnershipSettlementService) Settle(ctx context.Context, ev *dtos.PaymentEvent) (*dtos.SettlementResult, error) {
	// 1. Idempotency gate. A found record means the event was already
	// applied; report success without any domain effect.
	existing, err := s.paymentRepo.GetByExternalID(ctx, ev.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup for %q: %w", ev.ExternalID, err)
	}
	if existing != nil {
		utils.Logger.Infof("Duplicate payment event %s (provider %s); already applied, skipping", ev.ExternalID, ev.Provider)
		return &dtos.SettlementResult{Success: true, Duplicate: true}, nil
	}

	// 2. Identity resolution.
	user, newUser, err := s.resolveUser(ctx, ev)
	if err != nil {
		return failure(err), err
	}

	// 3. Referral resolution. Unknown or absent codes resolve to none.
	affiliateID := s.resolveAffiliate(ctx, ev.ReferralCode)

	// 4. Pricing resolution. Fatal if the tier is unknown - the purchased
	// percentage cannot be guessed.
	if ev.PricingTierID == nil {
		return failure(utils.ErrPricingTierNotFound), utils.ErrPricingTierNotFound
	}
	tier, err := s.tierRepo.GetByID(ctx, *ev.PricingTierID)
	if err != nil {
		return nil, fmt.Errorf("pricing tier lookup: %w", err)
	}
	if tier == nil {
		utils.Logger.Errorf("Payment %s references unknown pricing tier %s", ev.ExternalID, ev.PricingTierID)
		return failure(utils.ErrPricingTierNotFound), utils.ErrPricingTierNotFound
	}

	collectionID := tier.CollectionID
	if ev.CollectionID != nil {
		collectionID = *ev.CollectionID
	}
	coll, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("collection lookup: %w", err)
	}
	if coll == nil {
		utils.Logger.Errorf("Payment %s references unknown collection %s", ev.ExternalID, collectionID)
		return failure(utils.ErrCollectionNotFound), utils.ErrCollectionNotFound
	}

	// 5. Persist the PaymentRecord before applying domain effects. From
	// here on the gate in step 1 (and the unique external_id constraint)
	// prevents double-crediting on redelivery.
	payment := &models.PaymentRecord{
		ID:            uuid.New(),
		Provider:      ev.Provider,
		ExternalID:    ev.ExternalID,
		UserID:        user.ID,
		AmountCents:   ev.AmountCents,
		Currency:      ev.Currency,
		Purpose:       models.PaymentPurposeOwnership,
		Status:        models.PaymentStatusSuccess,
		CollectionID:  &collectionID,
		PricingTierID: &tier.ID,
		AffiliateID:   affiliateID,
		ProcessedAt:   time.Now().UTC(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, utils.ErrDuplicateEvent) {
			// Lost the race against a concurrent delivery of the same
			// event; the winner applied the domain effects.
			utils.Logger.Infof("Concurrent duplicate of payment event %s; other delivery won", ev.ExternalID)
			return &dtos.SettlementResult{Success: true, Duplicate: true}, nil
		}
		return nil, fmt.Errorf("persist payment record %q: %w", ev.ExternalID, err)
	}

	// 6. Allocate a unit and write the ledger entry as one unit-of-work.
	unit, _, err := s.allocation.AllocateAndRecord(ctx, collectionID, user.ID, tier.BasisPoints, payment.ID)
	if err != nil {
		if errors.Is(err, utils.ErrCollectionSoldOut) || errors.Is(err, utils.ErrCapacityExceeded) {
			// Money captured, nothing allocated. Flag with full context
			// for manual reconciliation (refund handled outside).
			utils.Logger.Errorf(
				"RECONCILIATION REQUIRED: payment %s (external %s) captured but allocation failed: collection=%s tier=%s bp=%d",
				payment.ID, ev.ExternalID, collectionID, tier.ID, tier.BasisPoints,
			)
			return failure(utils.ErrAllocationFailedAfterPayment), utils.ErrAllocationFailedAfterPayment
		}
		return nil, fmt.Errorf("allocate for payment %q: %w", ev.ExternalID, err)
	}

	utils.Logger.Infof("Settled payment %s: %d bp of unit %s for user %s (new_user=%t)",
		ev.ExternalID, tier.BasisPoints, unit.Name, user.ID, newUser)

	return &dtos.SettlementResult{
		Success:        true,
		UnitName:       unit.Name,
		NewUserCreated: newUser,
	}, nil
}

// resolveUser finds the paying identity: by id when the event carries one,
// otherwise resolve-or-create by payer email. The bool reports whether a
// new account was created (downstream messaging only).
func (s *OwnershipSettlementService) resolveUser(ctx context.Context, ev *dtos.PaymentEvent) (*models.User, bool, error) {
	if ev.UserID != nil {
		u, err := s.userRepo.GetByID(ctx, *ev.UserID)
		if err != nil {
			return nil, false, fmt.Errorf("user lookup: %w", err)
		}
		if u != nil {
			return u, false, nil
		}
		utils.Logger.Warnf("Payment %s carries unknown user id %s; falling back to email resolution", ev.ExternalID, ev.UserID)
	}
	return resolveOrCreateByEmail(ctx, s.userRepo, ev.PayerEmail, ev.PayerName)
}

func (s *OwnershipSettlementService) resolveAffiliate(ctx context.Context, code string) *uuid.UUID {
	if code == "" {
		return nil
	}
	link, err := s.affiliateRepo.FindByCode(ctx, code)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Referral code %q lookup failed; continuing without attribution", code)
		return nil
	}
	if link == nil {
		utils.Logger.Infof("Unknown referral code %q; continuing without attribution", code)
		return nil
	}
	return &link.ID
}

// resolveOrCreateByEmail is shared by both settlement engines.
func resolveOrCreateByEmail(ctx context.Context, userRepo repositories.UserRepository, email, name string) (*models.User, bool, error) {
	if email == "" {
		return nil, false, utils.ErrInvalidEmail
	}
	u, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("user lookup by email: %w", err)
	}
	if u != nil {
		return u, false, nil
	}

	u = &models.User{
		ID:       uuid.New(),
		Email:    email,
		FullName: name,
	}
	if err := userRepo.Create(ctx, u); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	// Re-read in case a concurrent settlement created the same email first.
	created, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("re-read user by email: %w", err)
	}
	if created == nil {
		return nil, false, fmt.Errorf("user %q missing after create", email)
	}
	return created, created.ID == u.ID, nil
}

func failure(err error) *dtos.SettlementResult {
	return &dtos.SettlementResult{Success: false, ErrorKind: err.Error()}
}
