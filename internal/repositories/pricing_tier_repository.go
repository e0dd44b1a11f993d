package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/ownstays/settlement-service/internal/models"
)

type PricingTierRepository interface {
	Create(ctx context.Context, t *models.PricingTier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PricingTier, error)

	// ListActiveByCollectionID returns the tiers purchasable at the given
	// evaluation time. The time is an explicit argument so effective-window
	// logic is testable with fixed clocks.
	ListActiveByCollectionID(ctx context.Context, collectionID uuid.UUID, at time.Time) ([]*models.PricingTier, error)
}

type pricingTierRepo struct {
	db DB
}

func NewPricingTierRepository(db DB) PricingTierRepository {
	return &pricingTierRepo{db: db}
}

func (r *pricingTierRepo) Create(ctx context.Context, t *models.PricingTier) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO pricing_tiers (
			id, collection_id, basis_points, price_usd_cents, price_eur_cents,
			label, active, effective_from, effective_until, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW())
	`, t.ID, t.CollectionID, t.BasisPoints, t.PriceUSDCents, t.PriceEURCents,
		t.Label, t.Active, t.EffectiveFrom, t.EffectiveUntil)
	return err
}

func (r *pricingTierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PricingTier, error) {
	row := r.db.QueryRow(ctx, baseSelectTier()+" WHERE id=$1", id)
	return scanTier(row)
}

func (r *pricingTierRepo) ListActiveByCollectionID(ctx context.Context, collectionID uuid.UUID, at time.Time) ([]*models.PricingTier, error) {
	q := baseSelectTier() + `
		WHERE collection_id = $1
		  AND active
		  AND (effective_from IS NULL OR effective_from <= $2)
		  AND (effective_until IS NULL OR effective_until > $2)
		ORDER BY basis_points
	`
	rows, err := r.db.Query(ctx, q, collectionID, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PricingTier
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func baseSelectTier() string {
	return `
		SELECT id, collection_id, basis_points, price_usd_cents, price_eur_cents,
		       label, active, effective_from, effective_until, created_at
		FROM pricing_tiers`
}

func scanTier(row pgx.Row) (*models.PricingTier, error) {
	var t models.PricingTier
	if err := row.Scan(
		&t.ID, &t.CollectionID, &t.BasisPoints, &t.PriceUSDCents, &t.PriceEURCents,
		&t.Label, &t.Active, &t.EffectiveFrom, &t.EffectiveUntil, &t.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
