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

// Equipment statuses
const (
	EquipmentOperational = "operational"
	EquipmentMaintenance = "maintenance"
	EquipmentRepair      = "repair"
	EquipmentRetired     = "retired"
)

// Equipment represents a piece of farm machinery
type Equipment struct {
	ID           string           `db:"id" json:"id"`
	Name         string           `db:"name" json:"name"`
	Description  *string          `db:"description" json:"description,omitempty"`
	SerialNumber *string          `db:"serial_number" json:"serial_number,omitempty"`
	Manufacturer *string          `db:"manufacturer" json:"manufacturer,omitempty"`
	Model        *string          `db:"model" json:"model,omitempty"`
	PurchaseDate *time.Time       `db:"purchase_date" json:"purchase_date,omitempty"`
	Cost         *decimal.Decimal `db:"cost" json:"cost,omitempty"`
	Location     *string          `db:"location" json:"location,omitempty"`
	Status       string           `db:"status" json:"status"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// EquipmentRepository handles equipment persistence
type EquipmentRepository struct {
	db *database.DB
}

// NewEquipmentRepository creates a new equipment repository
func NewEquipmentRepository(db *database.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// Create creates a new equipment record
func (r *EquipmentRepository) Create(ctx context.Context, eq *Equipment) error {
	if eq.ID == "" {
		eq.ID = uuid.New().String()
	}
	if eq.Status == "" {
		eq.Status = EquipmentOperational
	}

	query := `
		INSERT INTO equipment (
			id, name, description, serial_number, manufacturer, model,
			purchase_date, cost, location, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		eq.ID, eq.Name, eq.Description, eq.SerialNumber, eq.Manufacturer,
		eq.Model, eq.PurchaseDate, eq.Cost, eq.Location, eq.Status,
	).Scan(&eq.CreatedAt, &eq.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets an equipment record by ID
func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (*Equipment, error) {
	var eq Equipment
	query := `SELECT * FROM equipment WHERE id = $1`
	if err := r.db.GetContext(ctx, &eq, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("equipment")
		}
		return nil, err
	}
	return &eq, nil
}

// List lists equipment, optionally filtered by status
func (r *EquipmentRepository) List(ctx context.Context, status string) ([]*Equipment, error) {
	query := `SELECT * FROM equipment WHERE 1=1`
	args := []interface{}{}

	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", 1)
		args = append(args, status)
	}

	query += ` ORDER BY name`

	var equipment []*Equipment
	if err := r.db.SelectContext(ctx, &equipment, query, args...); err != nil {
		return nil, err
	}
	return equipment, nil
}

// Update updates an equipment record
func (r *EquipmentRepository) Update(ctx context.Context, eq *Equipment) error {
	query := `
		UPDATE equipment SET
			name = $2, description = $3, serial_number = $4, manufacturer = $5,
			model = $6, purchase_date = $7, cost = $8, location = $9, status = $10,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		eq.ID, eq.Name, eq.Description, eq.SerialNumber, eq.Manufacturer,
		eq.Model, eq.PurchaseDate, eq.Cost, eq.Location, eq.Status,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("equipment")
	}

	return nil
}

// Delete deletes an equipment record
func (r *EquipmentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM equipment WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("equipment")
	}

	return nil
}
