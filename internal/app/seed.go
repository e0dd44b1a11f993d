package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/repositories"
	"github.com/ownstays/settlement-service/internal/utils"
)

// SentinelCollectionID is used to check if seeding has already occurred.
const SentinelCollectionID = "dddddddd-dddd-4ddd-8ddd-ddddddddddd1"

// SeedDemoData seeds one demo collection with two units, a small tier
// ladder and a referral code. Idempotent: the sentinel collection id marks
// a previous run.
func SeedDemoData(
	ctx context.Context,
	collectionRepo repositories.CollectionRepository,
	unitRepo repositories.UnitRepository,
	tierRepo repositories.PricingTierRepository,
	userRepo repositories.UserRepository,
	affiliateRepo repositories.AffiliateLinkRepository,
) error {
	sentinelID := uuid.MustParse(SentinelCollectionID)

	existing, err := collectionRepo.GetByID(ctx, sentinelID)
	if err != nil {
		return fmt.Errorf("failed to check for sentinel collection: %w", err)
	}
	if existing != nil {
		utils.Logger.Info("settlement-service: Seed data already present; skipping seeding.")
		return nil
	}

	coll := &models.Collection{
		ID:          sentinelID,
		Name:        "Reef Villas",
		Description: "Demo beachfront collection for local development",
		Location:    "Samal Island",
	}
	if err := collectionRepo.Create(ctx, coll); err != nil {
		return fmt.Errorf("seed collection: %w", err)
	}

	units := []models.Unit{
		{ID: uuid.New(), CollectionID: coll.ID, Name: "Villa A", Position: 1},
		{ID: uuid.New(), CollectionID: coll.ID, Name: "Villa B", Position: 2},
	}
	if err := unitRepo.CreateMany(ctx, units); err != nil {
		return fmt.Errorf("seed units: %w", err)
	}

	now := time.Now().UTC()
	tiers := []models.PricingTier{
		{ID: uuid.New(), CollectionID: coll.ID, BasisPoints: 500, PriceUSDCents: 1_250_000, PriceEURCents: 1_150_000, Label: "5% share", Active: true, EffectiveFrom: &now},
		{ID: uuid.New(), CollectionID: coll.ID, BasisPoints: 1000, PriceUSDCents: 2_400_000, PriceEURCents: 2_200_000, Label: "10% share", Active: true, EffectiveFrom: &now},
		{ID: uuid.New(), CollectionID: coll.ID, BasisPoints: 2500, PriceUSDCents: 5_750_000, PriceEURCents: 5_300_000, Label: "25% share", Active: true, EffectiveFrom: &now},
	}
	for i := range tiers {
		if err := tierRepo.Create(ctx, &tiers[i]); err != nil {
			return fmt.Errorf("seed pricing tier %q: %w", tiers[i].Label, err)
		}
	}

	owner := &models.User{ID: uuid.New(), Email: "partner@ownstays.demo", FullName: "Demo Partner"}
	if err := userRepo.Create(ctx, owner); err != nil {
		return fmt.Errorf("seed affiliate owner: %w", err)
	}
	link := &models.AffiliateLink{ID: uuid.New(), Code: "REEF10", OwnerUserID: owner.ID, Active: true}
	if err := affiliateRepo.Create(ctx, link); err != nil {
		return fmt.Errorf("seed affiliate link: %w", err)
	}

	utils.Logger.Infof("Seeded demo collection %s with %d units, %d tiers and referral code %s", coll.Name, len(units), len(tiers), link.Code)
	return nil
}
