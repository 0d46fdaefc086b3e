package database

import (
	"strings"

	"github.com/farmstead/farmstead-backend/pkg/errors"
	"github.com/lib/pq"
)

// MapPQError converts a PostgreSQL constraint error to an AppError with a
// meaningful message. Errors it does not recognize pass through unchanged.
func MapPQError(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return err
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return err
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "movement_type_valid"):
		return errors.Validation(map[string]string{
			"movement_type": "must be one of: stock_in, stock_out, adjustment",
		})

	case strings.Contains(constraint, "transaction_type_valid"):
		return errors.Validation(map[string]string{
			"type": "must be one of: income, expense",
		})

	case strings.Contains(constraint, "quantity_non_negative"):
		return errors.Validation(map[string]string{
			"quantity": "must not be negative",
		})

	case strings.Contains(constraint, "status_valid"):
		return errors.Validation(map[string]string{
			"status": "has an invalid value",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "sku"):
		return "an inventory item with this SKU already exists"
	case strings.Contains(constraint, "batch_number"):
		return "a batch with this batch number already exists for this item"
	case strings.Contains(constraint, "email"):
		return "a user with this email already exists"
	default:
		return "a record with these values already exists"
	}
}
