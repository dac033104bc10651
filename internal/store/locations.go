package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/hlev/internal/model"
)

// CreateLocation creates a new location.
func CreateLocation(ctx context.Context, db *sql.DB, name, locType string, capacity int, notes string) (*model.Location, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("capacity must not be negative")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO locations (name, type, capacity, notes) VALUES (?, ?, ?, ?)`,
		name, locType, capacity, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting location id: %w", err)
	}

	return GetLocation(ctx, db, id)
}

// GetLocation returns a location by ID. Inactive locations are returned;
// soft-deleted ones are not.
func GetLocation(ctx context.Context, db *sql.DB, id int64) (*model.Location, error) {
	l := &model.Location{}
	var notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, type, capacity, status, notes, created_at, updated_at, deleted_at
		 FROM locations WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&l.ID, &l.Name, &l.Type, &l.Capacity, &l.Status, &notes, &l.CreatedAt, &l.UpdatedAt, &l.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	l.Notes = notes.String
	return l, nil
}

// ListLocations returns all non-deleted locations, optionally filtered by
// type and status.
func ListLocations(ctx context.Context, db *sql.DB, locType, status string) ([]model.Location, error) {
	query := `SELECT id, name, type, capacity, status, notes, created_at, updated_at, deleted_at
	          FROM locations WHERE deleted_at IS NULL`
	var args []any

	if locType != "" {
		query += ` AND type = ?`
		args = append(args, locType)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

// UpdateLocation updates a location's metadata. Lowering capacity below the
// current head count is allowed; the transfer workflow only ever rejects new
// arrivals, it cannot unwind history.
func UpdateLocation(ctx context.Context, db *sql.DB, id int64, name, locType string, capacity int, status, notes string) error {
	if capacity < 0 {
		return fmt.Errorf("capacity must not be negative")
	}

	_, err := db.ExecContext(ctx,
		`UPDATE locations SET name = ?, type = ?, capacity = ?, status = ?, notes = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, locType, capacity, status, notes, id,
	)
	if err != nil {
		return fmt.Errorf("updating location: %w", err)
	}
	return nil
}

// DeleteLocation soft-deletes a location. Fails with ErrLocationInUse while
// any active animal is assigned to it.
func DeleteLocation(ctx context.Context, db *sql.DB, id int64) error {
	loc, err := GetLocation(ctx, db, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return ErrLocationNotFound
	}

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM animals
		 WHERE current_location_id = ? AND status = ? AND deleted_at IS NULL`,
		id, model.AnimalStatusActive,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking location animals: %w", err)
	}
	if count > 0 {
		return ErrLocationInUse
	}

	_, err = db.ExecContext(ctx,
		`UPDATE locations SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	return nil
}

// GetOccupancy returns the live head count of a location against its
// capacity. Occupancy is always computed by query, never cached, so two
// reads without intervening writes return the same result.
func GetOccupancy(ctx context.Context, db *sql.DB, id int64) (*model.Occupancy, error) {
	var capacity int
	err := db.QueryRowContext(ctx,
		`SELECT capacity FROM locations WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&capacity)
	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting location capacity: %w", err)
	}

	var current int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM animals
		 WHERE current_location_id = ? AND status = ? AND deleted_at IS NULL`,
		id, model.AnimalStatusActive,
	).Scan(&current)
	if err != nil {
		return nil, fmt.Errorf("counting animals: %w", err)
	}

	occ := &model.Occupancy{Current: current, Capacity: capacity}
	if capacity > 0 {
		rate := float64(current) / float64(capacity) * 100
		occ.Rate = &rate
	}
	return occ, nil
}

// ListAvailableLocations returns active locations with at least one free
// slot, optionally filtered by type. A location at or over capacity is
// never returned.
func ListAvailableLocations(ctx context.Context, db *sql.DB, locType string) ([]model.Location, error) {
	query := `SELECT l.id, l.name, l.type, l.capacity, l.status, l.notes,
	                 l.created_at, l.updated_at, l.deleted_at
	          FROM locations l
	          LEFT JOIN animals a ON a.current_location_id = l.id
	              AND a.status = ? AND a.deleted_at IS NULL
	          WHERE l.deleted_at IS NULL AND l.status = ?`
	args := []any{model.AnimalStatusActive, model.LocationStatusActive}

	if locType != "" {
		query += ` AND l.type = ?`
		args = append(args, locType)
	}

	query += ` GROUP BY l.id HAVING COUNT(a.id) < l.capacity ORDER BY l.name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing available locations: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

// GetLocationAnimals returns the active animals currently assigned to a
// location.
func GetLocationAnimals(ctx context.Context, db *sql.DB, id int64) ([]model.Animal, error) {
	loc, err := GetLocation(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrLocationNotFound
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, tag, name, species, status, current_location_id, photo_mime, notes,
		        created_at, updated_at, deleted_at
		 FROM animals
		 WHERE current_location_id = ? AND status = ? AND deleted_at IS NULL
		 ORDER BY tag`,
		id, model.AnimalStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("getting location animals: %w", err)
	}
	defer rows.Close()

	return scanAnimals(rows)
}

func scanLocations(rows *sql.Rows) ([]model.Location, error) {
	var locations []model.Location
	for rows.Next() {
		var l model.Location
		var notes sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &l.Type, &l.Capacity, &l.Status, &notes,
			&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		l.Notes = notes.String
		locations = append(locations, l)
	}
	return locations, rows.Err()
}
