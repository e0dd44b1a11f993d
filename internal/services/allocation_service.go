package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/repositories"
	"github.com/ownstays/settlement-service/internal/utils"
)

// AllocationService picks which physical unit absorbs a fractional
// purchase. Policy is sequential fill: units are considered in ascending
// creation order and lower-ordered units are exhausted before higher ones
// are opened, so ownership concentrates into as few units as possible.
type AllocationService struct {
	unitRepo      repositories.UnitRepository
	ownershipRepo repositories.OwnershipRepository
}

func NewAllocationService(unitRepo repositories.UnitRepository, ownershipRepo repositories.OwnershipRepository) *AllocationService {
	return &AllocationService{unitRepo: unitRepo, ownershipRepo: ownershipRepo}
}

// FindAvailableUnit returns the lowest-position unit of the collection
// whose remaining capacity covers basisPoints, or (nil, nil) when the
// collection is sold out for that size. This is the read-oriented view;
// the reservation itself happens in AllocateAndRecord, whose transaction
// re-checks capacity under a row lock.
func (s *AllocationService) FindAvailableUnit(ctx context.Context, collectionID uuid.UUID, basisPoints int) (*models.Unit, error) {
	units, err := s.unitRepo.ListByCollectionID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	capacities, err := s.ownershipRepo.CapacityByUnit(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		if capacities[u.ID] >= basisPoints {
			return u, nil
		}
	}
	return nil, nil
}

// AllocateAndRecord runs allocation and the ledger write as one serialized
// unit-of-work. Returns ErrCollectionSoldOut when no unit can absorb the
// request; by then the caller has typically already persisted the payment,
// which is why the settlement engine surfaces this as a reconciliation
// case rather than retrying.
func (s *AllocationService) AllocateAndRecord(
	ctx context.Context,
	collectionID, userID uuid.UUID,
	basisPoints int,
	paymentID uuid.UUID,
) (*models.Unit, *models.OwnershipRecord, error) {
	unit, rec, err := s.ownershipRepo.AllocateAndRecord(ctx, collectionID, userID, basisPoints, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if unit == nil {
		return nil, nil, utils.ErrCollectionSoldOut
	}
	utils.Logger.Infof("Allocated %d bp of unit %s (%s) to user %s", basisPoints, unit.ID, unit.Name, userID)
	return unit, rec, nil
}
