package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/ownstays/settlement-service/internal/constants"
	"github.com/ownstays/settlement-service/internal/models"
	"github.com/ownstays/settlement-service/internal/utils"
)

/* ───────────── public interface ───────────── */

// OwnershipRepository is the authoritative ledger of basis-point shares.
// Records are append-only; the capacity ceiling is enforced at commit time
// inside the atomic write methods, never checked-then-written.
type OwnershipRepository interface {
	TotalOwned(ctx context.Context, unitID uuid.UUID) (int, error)
	AvailableCapacity(ctx context.Context, unitID uuid.UUID) (int, error)

	// CapacityByUnit returns the remaining capacity of every unit in the
	// collection, keyed by unit id. Computed fresh on every call.
	CapacityByUnit(ctx context.Context, collectionID uuid.UUID) (map[uuid.UUID]int, error)

	// RecordAtomic locks the unit row, re-reads the aggregate and inserts
	// the record in one transaction. Returns ErrCapacityExceeded when the
	// unit total would pass 10000 basis points.
	RecordAtomic(ctx context.Context, unitID, userID uuid.UUID, basisPoints int, paymentID uuid.UUID) (*models.OwnershipRecord, error)

	// AllocateAndRecord is the sequential-fill unit-of-work: walk the
	// collection's units in ascending position, lock each candidate, and
	// insert against the first one whose locked capacity covers the
	// request. Returns (nil, nil, nil) when the collection is sold out for
	// this size.
	AllocateAndRecord(ctx context.Context, collectionID, userID uuid.UUID, basisPoints int, paymentID uuid.UUID) (*models.Unit, *models.OwnershipRecord, error)

	ListByUnit(ctx context.Context, unitID uuid.UUID) ([]*models.OwnershipRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.OwnershipRecord, error)
}

/* ───────────── implementation ───────────── */

type ownershipRepo struct {
	db DB
}

func NewOwnershipRepository(db DB) OwnershipRepository {
	return &ownershipRepo{db: db}
}

/* ---------- aggregates ---------- */

func (r *ownershipRepo) TotalOwned(ctx context.Context, unitID uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(basis_points),0) FROM ownership_records WHERE unit_id=$1
	`, unitID).Scan(&total)
	return total, err
}

func (r *ownershipRepo) AvailableCapacity(ctx context.Context, unitID uuid.UUID) (int, error) {
	total, err := r.TotalOwned(ctx, unitID)
	if err != nil {
		return 0, err
	}
	return constants.FullOwnershipBasisPoints - total, nil
}

func (r *ownershipRepo) CapacityByUnit(ctx context.Context, collectionID uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, $2 - COALESCE(SUM(o.basis_points),0)
		FROM units u
		LEFT JOIN ownership_records o ON o.unit_id = u.id
		WHERE u.collection_id = $1
		GROUP BY u.id
	`, collectionID, constants.FullOwnershipBasisPoints)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var capacity int
		if err := rows.Scan(&id, &capacity); err != nil {
			return nil, err
		}
		out[id] = capacity
	}
	return out, rows.Err()
}

/* ---------- atomic writes ---------- */

func (r *ownershipRepo) RecordAtomic(
	ctx context.Context,
	unitID, userID uuid.UUID,
	basisPoints int,
	paymentID uuid.UUID,
) (*models.OwnershipRecord, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	rec, err := insertLocked(ctx, tx, unitID, userID, basisPoints, paymentID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ownershipRepo) AllocateAndRecord(
	ctx context.Context,
	collectionID, userID uuid.UUID,
	basisPoints int,
	paymentID uuid.UUID,
) (*models.Unit, *models.OwnershipRecord, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	rows, err := tx.Query(ctx, baseSelectUnit()+" WHERE collection_id=$1 ORDER BY position", collectionID)
	if err != nil {
		return nil, nil, err
	}
	units, err := scanUnits(rows)
	rows.Close()
	if err != nil {
		return nil, nil, err
	}

	// Locking units one at a time in ascending position keeps lock
	// acquisition ordered across concurrent buyers.
	for _, unit := range units {
		rec, recErr := insertLocked(ctx, tx, unit.ID, userID, basisPoints, paymentID)
		if recErr == utils.ErrCapacityExceeded {
			continue
		}
		if recErr != nil {
			err = recErr
			return nil, nil, err
		}
		return unit, rec, nil
	}

	// Sold out for this size. Nothing was written; commit is a no-op.
	return nil, nil, nil
}

// insertLocked locks the unit row, re-reads the aggregate under the lock
// and inserts when the total stays within the ceiling.
func insertLocked(
	ctx context.Context,
	tx pgx.Tx,
	unitID, userID uuid.UUID,
	basisPoints int,
	paymentID uuid.UUID,
) (*models.OwnershipRecord, error) {
	var lockedID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM units WHERE id=$1 FOR UPDATE`, unitID).Scan(&lockedID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, utils.ErrUnitNotFound
		}
		return nil, err
	}

	var total int
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(basis_points),0) FROM ownership_records WHERE unit_id=$1
	`, unitID).Scan(&total); err != nil {
		return nil, err
	}
	if total+basisPoints > constants.FullOwnershipBasisPoints {
		return nil, utils.ErrCapacityExceeded
	}

	rec := &models.OwnershipRecord{
		ID:          uuid.New(),
		UnitID:      unitID,
		UserID:      userID,
		BasisPoints: basisPoints,
		PaymentID:   paymentID,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO ownership_records (id, unit_id, user_id, basis_points, payment_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, rec.ID, rec.UnitID, rec.UserID, rec.BasisPoints, rec.PaymentID, rec.CreatedAt); err != nil {
		return nil, err
	}
	return rec, nil
}

/* ---------- reads ---------- */

func (r *ownershipRepo) ListByUnit(ctx context.Context, unitID uuid.UUID) ([]*models.OwnershipRecord, error) {
	rows, err := r.db.Query(ctx, baseSelectOwnership()+" WHERE unit_id=$1 ORDER BY created_at", unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOwnershipRecords(rows)
}

func (r *ownershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.OwnershipRecord, error) {
	rows, err := r.db.Query(ctx, baseSelectOwnership()+" WHERE user_id=$1 ORDER BY created_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOwnershipRecords(rows)
}

/* ---------- internals ---------- */

func baseSelectOwnership() string {
	return `
		SELECT id, unit_id, user_id, basis_points, payment_id, created_at
		FROM ownership_records`
}

func scanOwnershipRecord(row pgx.Row) (*models.OwnershipRecord, error) {
	var o models.OwnershipRecord
	if err := row.Scan(&o.ID, &o.UnitID, &o.UserID, &o.BasisPoints, &o.PaymentID, &o.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func scanOwnershipRecords(rows pgx.Rows) ([]*models.OwnershipRecord, error) {
	var out []*models.OwnershipRecord
	for rows.Next() {
		o, err := scanOwnershipRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
