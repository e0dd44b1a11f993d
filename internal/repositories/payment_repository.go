package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/utils"
)

const pgUniqueViolation = "23505"

// PaymentRepository persists one row per externally-verified payment.
// The external_id column carries a DB uniqueness constraint; Create maps a
// unique violation to ErrDuplicateEvent so two racing webhook deliveries
// can never both apply domain effects.
type PaymentRepository interface {
	Create(ctx context.Context, p *models.PaymentRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentRecord, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.PaymentRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.PaymentRecord, error)
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepository(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, p *models.PaymentRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payment_records (
			id, provider, external_id, user_id, amount_cents, currency,
			purpose, status, collection_id, pricing_tier_id, booking_id,
			affiliate_id, processed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12, NOW())
	`, p.ID, p.Provider, p.ExternalID, p.UserID, p.AmountCents, p.Currency,
		p.Purpose, p.Status, p.CollectionID, p.PricingTierID, p.BookingID,
		p.AffiliateID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return utils.ErrDuplicateEvent
		}
		return err
	}
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentRecord, error) {
	row := r.db.QueryRow(ctx, baseSelectPayment()+" WHERE id=$1", id)
	return scanPayment(row)
}

func (r *paymentRepo) GetByExternalID(ctx context.Context, externalID string) (*models.PaymentRecord, error) {
	row := r.db.QueryRow(ctx, baseSelectPayment()+" WHERE external_id=$1", externalID)
	return scanPayment(row)
}

func (r *paymentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.PaymentRecord, error) {
	rows, err := r.db.Query(ctx, baseSelectPayment()+" WHERE user_id=$1 ORDER BY processed_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func baseSelectPayment() string {
	return `
		SELECT id, provider, external_id, user_id, amount_cents, currency,
		       purpose, status, collection_id, pricing_tier_id, booking_id,
		       affiliate_id, processed_at
		FROM payment_records`
}

func scanPayment(row pgx.Row) (*models.PaymentRecord, error) {
	var p models.PaymentRecord
	if err := row.Scan(
		&p.ID, &p.Provider, &p.ExternalID, &p.UserID, &p.AmountCents, &p.Currency,
		&p.Purpose, &p.Status, &p.CollectionID, &p.PricingTierID, &p.BookingID,
		&p.AffiliateID, &p.ProcessedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
