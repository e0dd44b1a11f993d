package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/ownstays/settlement-service/internal/models"
)

type CollectionRepository interface {
	Create(ctx context.Context, c *models.Collection) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	List(ctx context.Context) ([]*models.Collection, error)
	Update(ctx context.Context, c *models.Collection) error
}

type collectionRepo struct {
	db DB
}

func NewCollectionRepository(db DB) CollectionRepository {
	return &collectionRepo{db: db}
}

func (r *collectionRepo) Create(ctx context.Context, c *models.Collection) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO collections (id, name, description, location, created_at)
		VALUES ($1,$2,$3,$4, NOW())
	`, c.ID, c.Name, c.Description, c.Location)
	return err
}

func (r *collectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	row := r.db.QueryRow(ctx, baseSelectCollection()+" WHERE id=$1", id)
	return scanCollection(row)
}

func (r *collectionRepo) List(ctx context.Context) ([]*models.Collection, error) {
	rows, err := r.db.Query(ctx, baseSelectCollection()+" ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update touches the mutable fields only; identity is immutable.
func (r *collectionRepo) Update(ctx context.Context, c *models.Collection) error {
	_, err := r.db.Exec(ctx, `
		UPDATE collections SET name=$1, description=$2, location=$3 WHERE id=$4
	`, c.Name, c.Description, c.Location, c.ID)
	return err
}

func baseSelectCollection() string {
	return `
		SELECT id, name, description, location, created_at
		FROM collections`
}

func scanCollection(row pgx.Row) (*models.Collection, error) {
	var c models.Collection
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Location, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
