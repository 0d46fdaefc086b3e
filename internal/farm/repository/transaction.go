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

// Transaction types
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction represents a farm finance transaction
type Transaction struct {
	ID          string          `db:"id" json:"id"`
	FarmID      string          `db:"farm_id" json:"farm_id"`
	Type        string          `db:"type" json:"type"`
	Category    string          `db:"category" json:"category"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Date        time.Time       `db:"date" json:"date"`
	Description *string         `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// TransactionRepository handles finance transaction persistence
type TransactionRepository struct {
	db *database.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	query := `
		INSERT INTO transactions (id, farm_id, type, category, amount, date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		tx.ID, tx.FarmID, tx.Type, tx.Category, tx.Amount, tx.Date, tx.Description,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets a transaction by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*Transaction, error) {
	var tx Transaction
	query := `SELECT * FROM transactions WHERE id = $1`
	if err := r.db.GetContext(ctx, &tx, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("transaction")
		}
		return nil, err
	}
	return &tx, nil
}

// List lists transactions, optionally filtered by farm and type, newest first
func (r *TransactionRepository) List(ctx context.Context, farmID, txType string) ([]*Transaction, error) {
	query := `SELECT * FROM transactions WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if farmID != "" {
		query += fmt.Sprintf(" AND farm_id = $%d", argIndex)
		args = append(args, farmID)
		argIndex++
	}
	if txType != "" {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, txType)
		argIndex++
	}

	query += ` ORDER BY date DESC, created_at DESC`

	var transactions []*Transaction
	if err := r.db.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, err
	}
	return transactions, nil
}

// Update updates a transaction
func (r *TransactionRepository) Update(ctx context.Context, tx *Transaction) error {
	query := `
		UPDATE transactions SET
			type = $2, category = $3, amount = $4, date = $5, description = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.Type, tx.Category, tx.Amount, tx.Date, tx.Description,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("transaction")
	}

	return nil
}

// Delete deletes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM transactions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("transaction")
	}

	return nil
}
