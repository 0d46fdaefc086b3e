package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/farmstead/farmstead-backend/pkg/database"
	"github.com/farmstead/farmstead-backend/pkg/errors"
)

// StorageLocation represents a physical storage location (barn, silo, shed)
type StorageLocation struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	LocationType string    `db:"location_type" json:"location_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// LocationRepository handles storage location persistence
type LocationRepository struct {
	db *database.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *database.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create creates a new storage location
func (r *LocationRepository) Create(ctx context.Context, loc *StorageLocation) error {
	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}

	query := `
		INSERT INTO storage_locations (id, name, description, location_type)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		loc.ID, loc.Name, loc.Description, loc.LocationType,
	).Scan(&loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets a location by ID
func (r *LocationRepository) GetByID(ctx context.Context, id string) (*StorageLocation, error) {
	var loc StorageLocation
	query := `SELECT * FROM storage_locations WHERE id = $1`
	if err := r.db.GetContext(ctx, &loc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("location")
		}
		return nil, err
	}
	return &loc, nil
}

// List lists all storage locations
func (r *LocationRepository) List(ctx context.Context) ([]*StorageLocation, error) {
	var locations []*StorageLocation
	query := `SELECT * FROM storage_locations ORDER BY name`
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, err
	}
	return locations, nil
}

// Update updates a storage location
func (r *LocationRepository) Update(ctx context.Context, loc *StorageLocation) error {
	query := `
		UPDATE storage_locations SET
			name = $2, description = $3, location_type = $4, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, loc.ID, loc.Name, loc.Description, loc.LocationType)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("location")
	}

	return nil
}

// Delete deletes a storage location
func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM storage_locations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("location")
	}

	return nil
}
