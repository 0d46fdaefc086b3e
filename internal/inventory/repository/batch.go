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

// Batch statuses
const (
	BatchStatusActive   = "active"
	BatchStatusDepleted = "depleted"
	BatchStatusExpired  = "expired"
)

// InventoryBatch represents a received lot of an inventory item
type InventoryBatch struct {
	ID                string          `db:"id" json:"id"`
	ItemID            string          `db:"item_id" json:"item_id"`
	BatchNumber       string          `db:"batch_number" json:"batch_number"`
	Supplier          *string         `db:"supplier" json:"supplier,omitempty"`
	QuantityReceived  int             `db:"quantity_received" json:"quantity_received"`
	QuantityRemaining int             `db:"quantity_remaining" json:"quantity_remaining"`
	UnitCost          decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	ReceivedDate      time.Time       `db:"received_date" json:"received_date"`
	ExpirationDate    *time.Time      `db:"expiration_date" json:"expiration_date,omitempty"`
	Status            string          `db:"status" json:"status"`
	Notes             *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// BatchRepository handles batch persistence
type BatchRepository struct {
	db *database.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *database.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Create creates a new batch
func (r *BatchRepository) Create(ctx context.Context, batch *InventoryBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	if batch.Status == "" {
		batch.Status = BatchStatusActive
	}

	query := `
		INSERT INTO inventory_batches (
			id, item_id, batch_number, supplier, quantity_received,
			quantity_remaining, unit_cost, received_date, expiration_date,
			status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		batch.ID, batch.ItemID, batch.BatchNumber, batch.Supplier,
		batch.QuantityReceived, batch.QuantityRemaining, batch.UnitCost,
		batch.ReceivedDate, batch.ExpirationDate, batch.Status, batch.Notes,
	).Scan(&batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets a batch by ID
func (r *BatchRepository) GetByID(ctx context.Context, id string) (*InventoryBatch, error) {
	var batch InventoryBatch
	query := `SELECT * FROM inventory_batches WHERE id = $1`
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("batch")
		}
		return nil, err
	}
	return &batch, nil
}

// ListByItem lists batches for an item, soonest expiry first
func (r *BatchRepository) ListByItem(ctx context.Context, itemID string) ([]*InventoryBatch, error) {
	var batches []*InventoryBatch
	query := `
		SELECT * FROM inventory_batches
		WHERE item_id = $1
		ORDER BY expiration_date NULLS LAST, received_date
	`
	if err := r.db.SelectContext(ctx, &batches, query, itemID); err != nil {
		return nil, err
	}
	return batches, nil
}

// ListAll lists all batches
func (r *BatchRepository) ListAll(ctx context.Context) ([]*InventoryBatch, error) {
	var batches []*InventoryBatch
	query := `SELECT * FROM inventory_batches ORDER BY expiration_date NULLS LAST, received_date`
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, err
	}
	return batches, nil
}

// Update updates a batch's descriptive fields. Quantity consumption goes
// through ConsumeQuantity.
func (r *BatchRepository) Update(ctx context.Context, batch *InventoryBatch) error {
	query := `
		UPDATE inventory_batches SET
			batch_number = $2, supplier = $3, quantity_received = $4,
			quantity_remaining = $5, unit_cost = $6, received_date = $7,
			expiration_date = $8, status = $9, notes = $10, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		batch.ID, batch.BatchNumber, batch.Supplier, batch.QuantityReceived,
		batch.QuantityRemaining, batch.UnitCost, batch.ReceivedDate,
		batch.ExpirationDate, batch.Status, batch.Notes,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("batch")
	}

	return nil
}

// Delete deletes a batch
func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM inventory_batches WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("batch")
	}

	return nil
}

// ConsumeQuantity decrements a batch's remaining quantity in a single
// statement so concurrent consumers cannot drive it negative. The quantity
// floors at zero and the batch flips to depleted when it reaches zero.
func (r *BatchRepository) ConsumeQuantity(ctx context.Context, id string, quantity int) (*InventoryBatch, error) {
	var batch InventoryBatch
	query := `
		UPDATE inventory_batches SET
			quantity_remaining = GREATEST(quantity_remaining - $2, 0),
			status = CASE WHEN quantity_remaining - $2 <= 0 THEN 'depleted' ELSE status END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &batch, query, id, quantity); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("batch")
		}
		return nil, database.MapPQError(err)
	}
	return &batch, nil
}

// ListExpiringWithin lists active batches with stock remaining whose
// expiration date falls within the window
func (r *BatchRepository) ListExpiringWithin(ctx context.Context, window time.Duration) ([]*InventoryBatch, error) {
	var batches []*InventoryBatch
	query := `
		SELECT * FROM inventory_batches
		WHERE quantity_remaining > 0
		AND expiration_date IS NOT NULL
		AND expiration_date >= NOW()
		AND expiration_date <= $1
		ORDER BY expiration_date
	`
	if err := r.db.SelectContext(ctx, &batches, query, time.Now().Add(window)); err != nil {
		return nil, err
	}
	return batches, nil
}

// ListExpired lists batches past their expiration date with stock remaining
func (r *BatchRepository) ListExpired(ctx context.Context) ([]*InventoryBatch, error) {
	var batches []*InventoryBatch
	query := `
		SELECT * FROM inventory_batches
		WHERE quantity_remaining > 0 AND expiration_date < NOW()
		ORDER BY expiration_date
	`
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, err
	}
	return batches, nil
}
