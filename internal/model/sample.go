package model

import "time"

// Sample represents a blood sample taken from an animal for testing.
type Sample struct {
	ID          int64      `json:"id"`
	AnimalID    int64      `json:"animal_id"`
	TestType    string     `json:"test_type"`
	Status      string     `json:"status"`
	Result      string     `json:"result,omitempty"`
	TakenAt     time.Time  `json:"taken_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedBy   *int64     `json:"created_by,omitempty"`

	// Joined fields (not always populated).
	AnimalTag string `json:"animal_tag,omitempty"`
}

// Sample statuses.
const (
	SampleStatusPending   = "pending"
	SampleStatusCompleted = "completed"
)
