package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ownstays/settlement-service/internal/repositories"
	"github.com/ownstays/settlement-service/internal/utils"
)

// AvailabilityService derives which pricing tiers are still purchasable
// for a collection. It is a read-only view recomputed on every call; there
// is deliberately no cached counter that could drift from the ledger.
type AvailabilityService struct {
	collectionRepo repositories.CollectionRepository
	tierRepo       repositories.PricingTierRepository
	ownershipRepo  repositories.OwnershipRepository
}

func NewAvailabilityService(
	collectionRepo repositories.CollectionRepository,
	tierRepo repositories.PricingTierRepository,
	ownershipRepo repositories.OwnershipRepository,
) *AvailabilityService {
	return &AvailabilityService{
		collectionRepo: collectionRepo,
		tierRepo:       tierRepo,
		ownershipRepo:  ownershipRepo,
	}
}

// TierAvailability maps each active tier's basis-point size to whether at
// least one unit can still absorb it. A tier fits iff its size is at most
// the maximum remaining capacity across the collection's units. The
// evaluation time is explicit so effective windows are testable with fixed
// clocks.
func (s *AvailabilityService) TierAvailability(ctx context.Context, collectionID uuid.UUID, at time.Time) (map[int]bool, error) {
	coll, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if coll == nil {
		return nil, utils.ErrCollectionNotFound
	}

	tiers, err := s.tierRepo.ListActiveByCollectionID(ctx, collectionID, at)
	if err != nil {
		return nil, err
	}

	capacities, err := s.ownershipRepo.CapacityByUnit(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	maxCapacity := 0
	for _, c := range capacities {
		if c > maxCapacity {
			maxCapacity = c
		}
	}

	out := make(map[int]bool, len(tiers))
	for _, t := range tiers {
		out[t.BasisPoints] = t.BasisPoints <= maxCapacity
	}
	return out, nil
}
