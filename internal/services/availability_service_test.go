package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/utils"
)

func newAvailabilityFixture(t *testing.T, unitNames ...string) (*AvailabilityService, *fakeOwnershipRepo, *fakeTierRepo, uuid.UUID, []*models.Unit) {
	t.Helper()
	ctx := context.Background()

	collectionID, _, ownershipRepo, units := newCollectionFixture(t, unitNames...)
	collections := newFakeCollectionRepo()
	require.NoError(t, collections.Create(ctx, &models.Collection{ID: collectionID, Name: "Reef Villas"}))

	tiers := newFakeTierRepo()
	for _, bp := range []int{500, 1000, 1500} {
		require.NoError(t, tiers.Create(ctx, &models.PricingTier{
			ID:           uuid.New(),
			CollectionID: collectionID,
			BasisPoints:  bp,
			Active:       true,
		}))
	}

	return NewAvailabilityService(collections, tiers, ownershipRepo), ownershipRepo, tiers, collectionID, units
}

func TestTierAvailabilityNearCapacity(t *testing.T) {
	ctx := context.Background()
	svc, ownershipRepo, _, collectionID, units := newAvailabilityFixture(t, "Villa A")

	// 9000 of the single unit owned: 500 and 1000 still fit, 1500 does not.
	_, err := ownershipRepo.RecordAtomic(ctx, units[0].ID, uuid.New(), 9000, uuid.New())
	require.NoError(t, err)

	avail, err := svc.TierAvailability(ctx, collectionID, time.Now())
	require.NoError(t, err)
	require.Equal(t, map[int]bool{500: true, 1000: true, 1500: false}, avail)
}

func TestTierAvailabilitySoldOut(t *testing.T) {
	ctx := context.Background()
	svc, ownershipRepo, _, collectionID, units := newAvailabilityFixture(t, "Villa A")

	_, err := ownershipRepo.RecordAtomic(ctx, units[0].ID, uuid.New(), 10000, uuid.New())
	require.NoError(t, err)

	avail, err := svc.TierAvailability(ctx, collectionID, time.Now())
	require.NoError(t, err)
	require.Equal(t, map[int]bool{500: false, 1000: false, 1500: false}, avail)
}

func TestTierAvailabilityUsesMaxCapacityAcrossUnits(t *testing.T) {
	ctx := context.Background()
	svc, ownershipRepo, _, collectionID, units := newAvailabilityFixture(t, "Villa A", "Villa B")

	// A is nearly full but B is untouched, so every tier still fits.
	_, err := ownershipRepo.RecordAtomic(ctx, units[0].ID, uuid.New(), 9900, uuid.New())
	require.NoError(t, err)

	avail, err := svc.TierAvailability(ctx, collectionID, time.Now())
	require.NoError(t, err)
	require.Equal(t, map[int]bool{500: true, 1000: true, 1500: true}, avail)
}

func TestTierAvailabilityUnknownCollection(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newAvailabilityFixture(t, "Villa A")

	_, err := svc.TierAvailability(ctx, uuid.New(), time.Now())
	require.ErrorIs(t, err, utils.ErrCollectionNotFound)
}

func TestTierAvailabilityHonorsEffectiveWindows(t *testing.T) {
	ctx := context.Background()
	svc, _, tiers, collectionID, _ := newAvailabilityFixture(t, "Villa A")

	launch := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tiers.Create(ctx, &models.PricingTier{
		ID:             uuid.New(),
		CollectionID:   collectionID,
		BasisPoints:    2500,
		Active:         true,
		EffectiveFrom:  &launch,
		EffectiveUntil: &end,
	}))

	// Before the window opens the 2500 tier is not listed at all.
	avail, err := svc.TierAvailability(ctx, collectionID, launch.Add(-time.Hour))
	require.NoError(t, err)
	require.NotContains(t, avail, 2500)

	// Inside the window it shows up.
	avail, err = svc.TierAvailability(ctx, collectionID, launch.Add(time.Hour))
	require.NoError(t, err)
	require.Contains(t, avail, 2500)
	require.True(t, avail[2500])

	// The end boundary is exclusive.
	avail, err = svc.TierAvailability(ctx, collectionID, end)
	require.NoError(t, err)
	require.NotContains(t, avail, 2500)
}
