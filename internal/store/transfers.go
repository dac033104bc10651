package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/hlev/internal/model"
)

// TransferAnimal moves an animal into a location, enforcing the capacity
// invariant, in a single transaction. A location holding exactly as many
// active animals as its capacity cannot accept one more.
//
// The animal update itself re-checks occupancy against capacity in its WHERE
// clause, so even if two transfers race past the pre-check, at most one
// commits an over-capacity move.
func TransferAnimal(ctx context.Context, db *sql.DB, locationID, animalID int64, notes string, createdBy *int64) (*model.Transfer, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Load the destination.
	var capacity int
	err = tx.QueryRowContext(ctx,
		`SELECT capacity FROM locations WHERE id = ? AND deleted_at IS NULL`,
		locationID,
	).Scan(&capacity)
	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}

	// Load the animal.
	var animalStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM animals WHERE id = ? AND deleted_at IS NULL`,
		animalID,
	).Scan(&animalStatus)
	if err == sql.ErrNoRows {
		return nil, ErrAnimalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting animal: %w", err)
	}
	if animalStatus != model.AnimalStatusActive {
		return nil, ErrAnimalInactive
	}

	// Occupancy check: current >= capacity means full. Animals already at
	// the destination are not re-counted against the limit.
	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM animals
		 WHERE current_location_id = ? AND status = ? AND deleted_at IS NULL AND id != ?`,
		locationID, model.AnimalStatusActive, animalID,
	).Scan(&current)
	if err != nil {
		return nil, fmt.Errorf("counting animals: %w", err)
	}
	if current >= capacity {
		return nil, ErrCapacityFull
	}

	// Conditional move: the occupancy guard is re-evaluated inside the
	// UPDATE so the check and the write are one atomic statement.
	result, err := tx.ExecContext(ctx,
		`UPDATE animals SET current_location_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ? AND deleted_at IS NULL
		   AND (SELECT COUNT(*) FROM animals a
		        WHERE a.current_location_id = ? AND a.status = ?
		          AND a.deleted_at IS NULL AND a.id != ?)
		       < (SELECT capacity FROM locations WHERE id = ?)`,
		locationID, animalID, model.AnimalStatusActive,
		locationID, model.AnimalStatusActive, animalID, locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("moving animal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking move result: %w", err)
	}
	if affected == 0 {
		// Lost a race between the pre-check and the guarded update.
		return nil, ErrCapacityFull
	}

	// Record the transfer.
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transfers (animal_id, location_id, notes, created_by)
		 VALUES (?, ?, ?, ?)`,
		animalID, locationID, notes, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("recording transfer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transfer: %w", err)
	}

	transferID, _ := res.LastInsertId()
	return GetTransfer(ctx, db, transferID)
}

// GetTransfer returns a transfer by ID.
func GetTransfer(ctx context.Context, db *sql.DB, id int64) (*model.Transfer, error) {
	t := &model.Transfer{}
	var notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT t.id, t.animal_id, t.location_id, t.start_date, t.notes, t.created_by,
		        a.tag AS animal_tag, l.name AS location_name
		 FROM transfers t
		 JOIN animals a ON a.id = t.animal_id
		 JOIN locations l ON l.id = t.location_id
		 WHERE t.id = ?`, id,
	).Scan(&t.ID, &t.AnimalID, &t.LocationID, &t.StartDate, &notes, &t.CreatedBy,
		&t.AnimalTag, &t.LocationName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting transfer: %w", err)
	}
	t.Notes = notes.String
	return t, nil
}

// ListTransfers returns transfers, optionally filtered by animal or location.
func ListTransfers(ctx context.Context, db *sql.DB, animalID, locationID int64) ([]model.Transfer, error) {
	query := `SELECT t.id, t.animal_id, t.location_id, t.start_date, t.notes, t.created_by,
	                 a.tag AS animal_tag, l.name AS location_name
	          FROM transfers t
	          JOIN animals a ON a.id = t.animal_id
	          JOIN locations l ON l.id = t.location_id
	          WHERE 1=1`
	var args []any

	if animalID > 0 {
		query += ` AND t.animal_id = ?`
		args = append(args, animalID)
	}
	if locationID > 0 {
		query += ` AND t.location_id = ?`
		args = append(args, locationID)
	}

	query += ` ORDER BY t.start_date DESC, t.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	return scanTransfers(rows)
}

func scanTransfers(rows *sql.Rows) ([]model.Transfer, error) {
	var transfers []model.Transfer
	for rows.Next() {
		var t model.Transfer
		var notes sql.NullString
		if err := rows.Scan(&t.ID, &t.AnimalID, &t.LocationID, &t.StartDate, &notes,
			&t.CreatedBy, &t.AnimalTag, &t.LocationName); err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		t.Notes = notes.String
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}
