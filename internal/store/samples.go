package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/hlev/internal/model"
)

// CreateSample records a blood sample taken from an animal. The sample
// starts out pending until a result is recorded.
func CreateSample(ctx context.Context, db *sql.DB, animalID int64, testType, notes string, createdBy *int64) (*model.Sample, error) {
	animal, err := GetAnimal(ctx, db, animalID)
	if err != nil {
		return nil, err
	}
	if animal == nil {
		return nil, ErrAnimalNotFound
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO samples (animal_id, test_type, notes, created_by) VALUES (?, ?, ?, ?)`,
		animalID, testType, notes, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sample: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting sample id: %w", err)
	}

	return GetSample(ctx, db, id)
}

// GetSample returns a sample by ID.
func GetSample(ctx context.Context, db *sql.DB, id int64) (*model.Sample, error) {
	s := &model.Sample{}
	var result, notes sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT s.id, s.animal_id, s.test_type, s.status, s.result, s.taken_at,
		        s.completed_at, s.notes, s.created_by, a.tag AS animal_tag
		 FROM samples s
		 JOIN animals a ON a.id = s.animal_id
		 WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.AnimalID, &s.TestType, &s.Status, &result, &s.TakenAt,
		&s.CompletedAt, &notes, &s.CreatedBy, &s.AnimalTag)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting sample: %w", err)
	}
	s.Result = result.String
	s.Notes = notes.String
	return s, nil
}

// ListSamples returns samples, optionally filtered by animal and status.
func ListSamples(ctx context.Context, db *sql.DB, animalID int64, status string) ([]model.Sample, error) {
	query := `SELECT s.id, s.animal_id, s.test_type, s.status, s.result, s.taken_at,
	                 s.completed_at, s.notes, s.created_by, a.tag AS animal_tag
	          FROM samples s
	          JOIN animals a ON a.id = s.animal_id
	          WHERE 1=1`
	var args []any

	if animalID > 0 {
		query += ` AND s.animal_id = ?`
		args = append(args, animalID)
	}
	if status != "" {
		query += ` AND s.status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY s.taken_at DESC, s.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}
	defer rows.Close()

	var samples []model.Sample
	for rows.Next() {
		var s model.Sample
		var result, notes sql.NullString
		if err := rows.Scan(&s.ID, &s.AnimalID, &s.TestType, &s.Status, &result, &s.TakenAt,
			&s.CompletedAt, &notes, &s.CreatedBy, &s.AnimalTag); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		s.Result = result.String
		s.Notes = notes.String
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// RecordSampleResult stores the lab result for a pending sample and marks it
// completed. A result can only be recorded once.
func RecordSampleResult(ctx context.Context, db *sql.DB, id int64, result string) (*model.Sample, error) {
	sample, err := GetSample(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if sample == nil {
		return nil, ErrSampleNotFound
	}
	if sample.Status == model.SampleStatusCompleted {
		return nil, ErrSampleCompleted
	}

	_, err = db.ExecContext(ctx,
		`UPDATE samples SET result = ?, status = ?, completed_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		result, model.SampleStatusCompleted, id, model.SampleStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("recording sample result: %w", err)
	}

	return GetSample(ctx, db, id)
}
