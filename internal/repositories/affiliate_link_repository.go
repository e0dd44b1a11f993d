package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/ownstays/settlement-service/internal/models"
)

type AffiliateLinkRepository interface {
	Create(ctx context.Context, l *models.AffiliateLink) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AffiliateLink, error)
	FindByCode(ctx context.Context, code string) (*models.AffiliateLink, error)
}

type affiliateLinkRepo struct {
	db DB
}

func NewAffiliateLinkRepository(db DB) AffiliateLinkRepository {
	return &affiliateLinkRepo{db: db}
}

func (r *affiliateLinkRepo) Create(ctx context.Context, l *models.AffiliateLink) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO affiliate_links (id, code, owner_user_id, active, created_at)
		VALUES ($1,$2,$3,$4, NOW())
	`, l.ID, l.Code, l.OwnerUserID, l.Active)
	return err
}

func (r *affiliateLinkRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AffiliateLink, error) {
	row := r.db.QueryRow(ctx, baseSelectAffiliateLink()+" WHERE id=$1", id)
	return scanAffiliateLink(row)
}

func (r *affiliateLinkRepo) FindByCode(ctx context.Context, code string) (*models.AffiliateLink, error) {
	row := r.db.QueryRow(ctx, baseSelectAffiliateLink()+" WHERE code=$1 AND active LIMIT 1", code)
	return scanAffiliateLink(row)
}

func baseSelectAffiliateLink() string {
	return `
		SELECT id, code, owner_user_id, active, created_at
		FROM affiliate_links`
}

func scanAffiliateLink(row pgx.Row) (*models.AffiliateLink, error) {
	var l models.AffiliateLink
	if err := row.Scan(&l.ID, &l.Code, &l.OwnerUserID, &l.Active, &l.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}
