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

// InventoryItem represents an inventory item. Quantity is never stored here;
// it is derived from the movement ledger.
type InventoryItem struct {
	ID                string          `db:"id" json:"id"`
	Name              string          `db:"name" json:"name"`
	Description       *string         `db:"description" json:"description,omitempty"`
	Category          string          `db:"category" json:"category"`
	SKU               *string         `db:"sku" json:"sku,omitempty"`
	Unit              string          `db:"unit" json:"unit"`
	PurchasePrice     decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	LowStockThreshold int             `db:"low_stock_threshold" json:"low_stock_threshold"`
	Supplier          *string         `db:"supplier" json:"supplier,omitempty"`
	LocationID        *string         `db:"location_id" json:"location_id,omitempty"`
	Notes             *string         `db:"notes" json:"notes,omitempty"`
	IsActive          bool            `db:"is_active" json:"is_active"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt         *time.Time      `db:"deleted_at" json:"-"`
}

const itemColumns = `id, name, description, category, sku, unit, purchase_price,
	low_stock_threshold, supplier, location_id, notes, is_active, created_at, updated_at`

// ItemRepository handles inventory item persistence
type ItemRepository struct {
	db *database.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create creates a new inventory item
func (r *ItemRepository) Create(ctx context.Context, item *InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	query := `
		INSERT INTO inventory_items (
			id, name, description, category, sku, unit, purchase_price,
			low_stock_threshold, supplier, location_id, notes, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		item.ID, item.Name, item.Description, item.Category, item.SKU, item.Unit,
		item.PurchasePrice, item.LowStockThreshold, item.Supplier, item.LocationID,
		item.Notes, item.IsActive,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*InventoryItem, error) {
	var item InventoryItem
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("item")
		}
		return nil, err
	}
	return &item, nil
}

// GetBySKU gets an item by SKU
func (r *ItemRepository) GetBySKU(ctx context.Context, sku string) (*InventoryItem, error) {
	var item InventoryItem
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE sku = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &item, query, sku); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("item")
		}
		return nil, err
	}
	return &item, nil
}

// List lists inventory items with pagination and an optional category filter
func (r *ItemRepository) List(ctx context.Context, page, perPage int, category string) ([]*InventoryItem, int64, error) {
	countQuery := `SELECT COUNT(*) FROM inventory_items WHERE deleted_at IS NULL`
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE deleted_at IS NULL`

	args := []interface{}{}
	argIndex := 1

	if category != "" {
		clause := fmt.Sprintf(" AND category = $%d", argIndex)
		countQuery += clause
		query += clause
		args = append(args, category)
		argIndex++
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, perPage, offset)

	var items []*InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// GetAllActive gets all active items
func (r *ItemRepository) GetAllActive(ctx context.Context) ([]*InventoryItem, error) {
	var items []*InventoryItem
	query := `SELECT ` + itemColumns + ` FROM inventory_items
		WHERE deleted_at IS NULL AND is_active = true ORDER BY name`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

// Update updates an inventory item
func (r *ItemRepository) Update(ctx context.Context, item *InventoryItem) error {
	query := `
		UPDATE inventory_items SET
			name = $2, description = $3, category = $4, sku = $5, unit = $6,
			purchase_price = $7, low_stock_threshold = $8, supplier = $9,
			location_id = $10, notes = $11, is_active = $12, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Description, item.Category, item.SKU, item.Unit,
		item.PurchasePrice, item.LowStockThreshold, item.Supplier, item.LocationID,
		item.Notes, item.IsActive,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("item")
	}

	return nil
}

// SoftDelete soft deletes an item. The movement ledger referencing it is
// kept untouched.
func (r *ItemRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE inventory_items SET deleted_at = NOW(), is_active = false
		WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("item")
	}

	return nil
}

// CountActive counts active items
func (r *ItemRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM inventory_items WHERE deleted_at IS NULL AND is_active = true`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, err
	}
	return count, nil
}
