package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmstead/farmstead-backend/pkg/database"
	"github.com/farmstead/farmstead-backend/pkg/errors"
)

// Farm represents a farm property
type Farm struct {
	ID         string          `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	Location   *string         `db:"location" json:"location,omitempty"`
	Size       decimal.Decimal `db:"size" json:"size"`
	SizeUnit   string          `db:"size_unit" json:"size_unit"`
	Directions *string         `db:"directions" json:"directions,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// FarmRepository handles farm persistence
type FarmRepository struct {
	db *database.DB
}

// NewFarmRepository creates a new farm repository
func NewFarmRepository(db *database.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

// Create creates a new farm
func (r *FarmRepository) Create(ctx context.Context, farm *Farm) error {
	if farm.ID == "" {
		farm.ID = uuid.New().String()
	}
	if farm.SizeUnit == "" {
		farm.SizeUnit = "acres"
	}

	query := `
		INSERT INTO farms (id, name, location, size, size_unit, directions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		farm.ID, farm.Name, farm.Location, farm.Size, farm.SizeUnit, farm.Directions,
	).Scan(&farm.CreatedAt, &farm.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets a farm by ID
func (r *FarmRepository) GetByID(ctx context.Context, id string) (*Farm, error) {
	var farm Farm
	query := `SELECT * FROM farms WHERE id = $1`
	if err := r.db.GetContext(ctx, &farm, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("farm")
		}
		return nil, err
	}
	return &farm, nil
}

// List lists all farms
func (r *FarmRepository) List(ctx context.Context) ([]*Farm, error) {
	var farms []*Farm
	query := `SELECT * FROM farms ORDER BY name`
	if err := r.db.SelectContext(ctx, &farms, query); err != nil {
		return nil, err
	}
	return farms, nil
}

// Update updates a farm
func (r *FarmRepository) Update(ctx context.Context, farm *Farm) error {
	query := `
		UPDATE farms SET
			name = $2, location = $3, size = $4, size_unit = $5, directions = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		farm.ID, farm.Name, farm.Location, farm.Size, farm.SizeUnit, farm.Directions,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("farm")
	}

	return nil
}

// Delete deletes a farm and everything referencing it via cascading keys
func (r *FarmRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM farms WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("farm")
	}

	return nil
}

// Count counts farms
func (r *FarmRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM farms`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, err
	}
	return count, nil
}
