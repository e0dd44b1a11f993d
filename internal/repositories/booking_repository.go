package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/ownstays/settlement-service/internal/models"
)

// BookingRepository defines the interface for booking data operations.
// Status transitions go through the versioned update so concurrent
// writers (webhook vs admin vs expiry sweep) never clobber each other.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByCollectionID(ctx context.Context, collectionID uuid.UUID) ([]*models.Booking, error)
	UpdateIfVersion(ctx context.Context, b *models.Booking, expectedVersion int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Booking) error) error
	FindStalePending(ctx context.Context, olderThan int, limit int) ([]*models.Booking, error)
}

type bookingRepo struct {
	*BaseVersionedRepo[*models.Booking]
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	r := &bookingRepo{db: db}
	selectStmt := baseSelectBooking() + " WHERE id = $1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanBooking)
	return r
}

func (r *bookingRepo) Create(ctx context.Context, b *models.Booking) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings (
			id, collection_id, guest_user_id, guest_name, guest_email,
			check_in, check_out, guests, total_cents, currency, status,
			payment_id, unit_ids, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, NOW(), NOW(), 1)
	`, b.ID, b.CollectionID, b.GuestUserID, b.GuestName, b.GuestEmail,
		b.CheckIn, b.CheckOut, b.Guests, b.TotalCents, b.Currency, b.Status,
		b.PaymentID, b.UnitIDs)
	return err
}

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *bookingRepo) ListByCollectionID(ctx context.Context, collectionID uuid.UUID) ([]*models.Booking, error) {
	rows, err := r.db.Query(ctx, baseSelectBooking()+" WHERE collection_id=$1 ORDER BY check_in", collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *bookingRepo) UpdateIfVersion(ctx context.Context, b *models.Booking, expectedVersion int64) (pgconn.CommandTag, error) {
	q := `
		UPDATE bookings SET
			status = $1,
			payment_id = $2,
			unit_ids = $3,
			guest_user_id = $4,
			updated_at = NOW(),
			row_version = row_version + 1
		WHERE id = $5 AND row_version = $6
	`
	return r.db.Exec(ctx, q, b.Status, b.PaymentID, b.UnitIDs, b.GuestUserID, b.ID, expectedVersion)
}

func (r *bookingRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Booking) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

// FindStalePending returns PENDING_PAYMENT bookings created more than
// olderThan hours ago, oldest first.
func (r *bookingRepo) FindStalePending(ctx context.Context, olderThan int, limit int) ([]*models.Booking, error) {
	q := baseSelectBooking() + `
		WHERE status = 'PENDING_PAYMENT'
		  AND created_at < NOW() - ($1 * INTERVAL '1 hour')
		ORDER BY created_at
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, q, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func baseSelectBooking() string {
	return `
		SELECT id, collection_id, guest_user_id, guest_name, guest_email,
		       check_in, check_out, guests, total_cents, currency, status,
		       payment_id, unit_ids, created_at, updated_at, row_version
		FROM bookings`
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.CollectionID, &b.GuestUserID, &b.GuestName, &b.GuestEmail,
		&b.CheckIn, &b.CheckOut, &b.Guests, &b.TotalCents, &b.Currency, &b.Status,
		&b.PaymentID, &b.UnitIDs, &b.CreatedAt, &b.UpdatedAt, &b.RowVersion,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookings(rows pgx.Rows) ([]*models.Booking, error) {
	var out []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
