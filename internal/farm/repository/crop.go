package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmstead/farmstead-backend/pkg/database"
	"github.com/farmstead/farmstead-backend/pkg/errors"
)

// Crop statuses
const (
	CropStatusPlanted   = "planted"
	CropStatusGrowing   = "growing"
	CropStatusReady     = "ready"
	CropStatusHarvested = "harvested"
)

// Crop represents a planted crop
type Crop struct {
	ID              string          `db:"id" json:"id"`
	FarmID          string          `db:"farm_id" json:"farm_id"`
	CropType        string          `db:"crop_type" json:"crop_type"`
	Field           *string         `db:"field" json:"field,omitempty"`
	PlantingDate    time.Time       `db:"planting_date" json:"planting_date"`
	ExpectedHarvest *time.Time      `db:"expected_harvest" json:"expected_harvest,omitempty"`
	Quantity        decimal.Decimal `db:"quantity" json:"quantity"`
	QuantityUnit    string          `db:"quantity_unit" json:"quantity_unit"`
	Status          string          `db:"status" json:"status"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// CropRepository handles crop persistence
type CropRepository struct {
	db *database.DB
}

// NewCropRepository creates a new crop repository
func NewCropRepository(db *database.DB) *CropRepository {
	return &CropRepository{db: db}
}

// Create creates a new crop
func (r *CropRepository) Create(ctx context.Context, crop *Crop) error {
	if crop.ID == "" {
		crop.ID = uuid.New().String()
	}
	if crop.Status == "" {
		crop.Status = CropStatusPlanted
	}

	query := `
		INSERT INTO crops (
			id, farm_id, crop_type, field, planting_date, expected_harvest,
			quantity, quantity_unit, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		crop.ID, crop.FarmID, crop.CropType, crop.Field, crop.PlantingDate,
		crop.ExpectedHarvest, crop.Quantity, crop.QuantityUnit, crop.Status, crop.Notes,
	).Scan(&crop.CreatedAt, &crop.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets a crop by ID
func (r *CropRepository) GetByID(ctx context.Context, id string) (*Crop, error) {
	var crop Crop
	query := `SELECT * FROM crops WHERE id = $1`
	if err := r.db.GetContext(ctx, &crop, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("crop")
		}
		return nil, err
	}
	return &crop, nil
}

// List lists crops, optionally filtered by farm and status
func (r *CropRepository) List(ctx context.Context, farmID, status string) ([]*Crop, error) {
	query := `SELECT * FROM crops WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if farmID != "" {
		query += fmt.Sprintf(" AND farm_id = $%d", argIndex)
		args = append(args, farmID)
		argIndex++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, status)
		argIndex++
	}

	query += ` ORDER BY planting_date DESC`

	var crops []*Crop
	if err := r.db.SelectContext(ctx, &crops, query, args...); err != nil {
		return nil, err
	}
	return crops, nil
}

// Update updates a crop
func (r *CropRepository) Update(ctx context.Context, crop *Crop) error {
	query := `
		UPDATE crops SET
			crop_type = $2, field = $3, planting_date = $4, expected_harvest = $5,
			quantity = $6, quantity_unit = $7, status = $8, notes = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		crop.ID, crop.CropType, crop.Field, crop.PlantingDate, crop.ExpectedHarvest,
		crop.Quantity, crop.QuantityUnit, crop.Status, crop.Notes,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("crop")
	}

	return nil
}

// Delete deletes a crop
func (r *CropRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM crops WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("crop")
	}

	return nil
}

// CountActive counts crops that are not yet harvested
func (r *CropRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM crops WHERE status != $1`
	if err := r.db.GetContext(ctx, &count, query, CropStatusHarvested); err != nil {
		return 0, err
	}
	return count, nil
}
