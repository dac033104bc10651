package model

import "time"

// Transfer records an animal moving into a location. Transfer rows are
// append-only; they are never updated or deleted.
type Transfer struct {
	ID         int64     `json:"id"`
	AnimalID   int64     `json:"animal_id"`
	LocationID int64     `json:"location_id"`
	StartDate  time.Time `json:"start_date"`
	Notes      string    `json:"notes,omitempty"`
	CreatedBy  *int64    `json:"created_by,omitempty"`

	// Joined fields (not always populated).
	AnimalTag    string `json:"animal_tag,omitempty"`
	LocationName string `json:"location_name,omitempty"`
}
