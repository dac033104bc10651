package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/hlev/internal/model"
)

// CreateAnimal creates a new animal record with no location assignment.
func CreateAnimal(ctx context.Context, db *sql.DB, tag, name, species, notes string) (*model.Animal, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO animals (tag, name, species, notes) VALUES (?, ?, ?, ?)`,
		tag, name, species, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating animal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting animal id: %w", err)
	}

	return GetAnimal(ctx, db, id)
}

// GetAnimal returns an animal by ID.
func GetAnimal(ctx context.Context, db *sql.DB, id int64) (*model.Animal, error) {
	a := &model.Animal{}
	var name, photoMime, notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, tag, name, species, status, current_location_id, photo_mime, notes,
		        created_at, updated_at, deleted_at
		 FROM animals WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&a.ID, &a.Tag, &name, &a.Species, &a.Status, &a.CurrentLocationID,
		&photoMime, &notes, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting animal: %w", err)
	}
	a.Name = name.String
	a.PhotoMime = photoMime.String
	a.Notes = notes.String
	return a, nil
}

// ListAnimals returns all non-deleted animals, optionally filtered by status
// and location.
func ListAnimals(ctx context.Context, db *sql.DB, status string, locationID int64) ([]model.Animal, error) {
	query := `SELECT id, tag, name, species, status, current_location_id, photo_mime, notes,
	                 created_at, updated_at, deleted_at
	          FROM animals WHERE deleted_at IS NULL`
	var args []any

	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if locationID > 0 {
		query += ` AND current_location_id = ?`
		args = append(args, locationID)
	}

	query += ` ORDER BY tag`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing animals: %w", err)
	}
	defer rows.Close()

	return scanAnimals(rows)
}

// UpdateAnimal updates an animal's metadata and status. Deactivating an
// animal frees its location slot on the next occupancy read; the location
// reference is kept for the record.
func UpdateAnimal(ctx context.Context, db *sql.DB, id int64, tag, name, species, status, notes string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE animals SET tag = ?, name = ?, species = ?, status = ?, notes = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		tag, name, species, status, notes, id,
	)
	if err != nil {
		return fmt.Errorf("updating animal: %w", err)
	}
	return nil
}

// DeleteAnimal soft-deletes an animal.
func DeleteAnimal(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE animals SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting animal: %w", err)
	}
	return nil
}

// SetAnimalPhoto sets an animal's photo data.
func SetAnimalPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE animals SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting animal photo: %w", err)
	}
	return nil
}

// GetAnimalPhoto returns an animal's photo data and MIME type.
func GetAnimalPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM animals WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting animal photo: %w", err)
	}
	return photo, mime.String, nil
}

// GetAnimalHistory returns the transfer history for an animal, newest first.
func GetAnimalHistory(ctx context.Context, db *sql.DB, animalID int64) ([]model.Transfer, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT t.id, t.animal_id, t.location_id, t.start_date, t.notes, t.created_by,
		        a.tag AS animal_tag, l.name AS location_name
		 FROM transfers t
		 JOIN animals a ON a.id = t.animal_id
		 JOIN locations l ON l.id = t.location_id
		 WHERE t.animal_id = ?
		 ORDER BY t.start_date DESC, t.id DESC`, animalID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting animal history: %w", err)
	}
	defer rows.Close()

	return scanTransfers(rows)
}

func scanAnimals(rows *sql.Rows) ([]model.Animal, error) {
	var animals []model.Animal
	for rows.Next() {
		var a model.Animal
		var name, photoMime, notes sql.NullString
		if err := rows.Scan(&a.ID, &a.Tag, &name, &a.Species, &a.Status, &a.CurrentLocationID,
			&photoMime, &notes, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning animal: %w", err)
		}
		a.Name = name.String
		a.PhotoMime = photoMime.String
		a.Notes = notes.String
		animals = append(animals, a)
	}
	return animals, rows.Err()
}
