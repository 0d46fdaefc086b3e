package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmstead/farmstead-backend/pkg/database"
)

// StockMovement is one entry in the append-only inventory ledger. Item and
// location names are denormalized at write time so the ledger stays readable
// after the referenced records change or disappear. The repository exposes no
// update or delete; corrections are recorded as adjustment movements.
type StockMovement struct {
	ID              string          `db:"id" json:"id"`
	ItemID          string          `db:"item_id" json:"item_id"`
	ItemName        string          `db:"item_name" json:"item_name"`
	Unit            string          `db:"unit" json:"unit"`
	MovementType    string          `db:"movement_type" json:"movement_type"`
	Quantity        int             `db:"quantity" json:"quantity"`
	UnitCost        decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	TotalCost       decimal.Decimal `db:"total_cost" json:"total_cost"`
	MovementDate    time.Time       `db:"movement_date" json:"movement_date"`
	BatchID         *string         `db:"batch_id" json:"batch_id,omitempty"`
	LocationID      *string         `db:"location_id" json:"location_id,omitempty"`
	LocationName    *string         `db:"location_name" json:"location_name,omitempty"`
	Reason          *string         `db:"reason" json:"reason,omitempty"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
	PerformedBy     *string         `db:"performed_by" json:"performed_by,omitempty"`
	PerformedByName *string         `db:"performed_by_name" json:"performed_by_name,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// MovementFilter narrows movement listings
type MovementFilter struct {
	ItemID       string
	MovementType string
	From         *time.Time
	To           *time.Time
	Page         int
	PerPage      int
}

// MovementRepository handles the stock movement ledger
type MovementRepository struct {
	db *database.DB
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *database.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// Create appends a movement to the ledger
func (r *MovementRepository) Create(ctx context.Context, m *StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO stock_movements (
			id, item_id, item_name, unit, movement_type, quantity, unit_cost,
			total_cost, movement_date, batch_id, location_id, location_name,
			reason, notes, performed_by, performed_by_name
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		m.ID, m.ItemID, m.ItemName, m.Unit, m.MovementType, m.Quantity, m.UnitCost,
		m.TotalCost, m.MovementDate, m.BatchID, m.LocationID, m.LocationName,
		m.Reason, m.Notes, m.PerformedBy, m.PerformedByName,
	).Scan(&m.CreatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// List lists movements matching the filter, newest first, with pagination
func (r *MovementRepository) List(ctx context.Context, filter MovementFilter) ([]*StockMovement, int64, error) {
	countQuery := `SELECT COUNT(*) FROM stock_movements WHERE 1=1`
	query := `SELECT * FROM stock_movements WHERE 1=1`

	args := []interface{}{}
	argIndex := 1

	addClause := func(clause string, value interface{}) {
		c := fmt.Sprintf(clause, argIndex)
		countQuery += c
		query += c
		args = append(args, value)
		argIndex++
	}

	if filter.ItemID != "" {
		addClause(" AND item_id = $%d", filter.ItemID)
	}
	if filter.MovementType != "" {
		addClause(" AND movement_type = $%d", filter.MovementType)
	}
	if filter.From != nil {
		addClause(" AND movement_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		addClause(" AND movement_date <= $%d", *filter.To)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 50
	}

	query += fmt.Sprintf(" ORDER BY movement_date DESC, created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, perPage, (page-1)*perPage)

	var movements []*StockMovement
	if err := r.db.SelectContext(ctx, &movements, query, args...); err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

// ListByItem returns the full ledger for one item, oldest first
func (r *MovementRepository) ListByItem(ctx context.Context, itemID string) ([]*StockMovement, error) {
	var movements []*StockMovement
	query := `
		SELECT * FROM stock_movements
		WHERE item_id = $1
		ORDER BY movement_date, created_at
	`
	if err := r.db.SelectContext(ctx, &movements, query, itemID); err != nil {
		return nil, err
	}
	return movements, nil
}

// ListAll returns the full ledger across all items, oldest first. Used by the
// stock aggregation fold and the alert scanner.
func (r *MovementRepository) ListAll(ctx context.Context) ([]*StockMovement, error) {
	var movements []*StockMovement
	query := `SELECT * FROM stock_movements ORDER BY movement_date, created_at`
	if err := r.db.SelectContext(ctx, &movements, query); err != nil {
		return nil, err
	}
	return movements, nil
}

// CountSince counts movements recorded at or after the given time
func (r *MovementRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM stock_movements WHERE movement_date >= $1`
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, err
	}
	return count, nil
}
