package model

import "time"

// Animal represents an individually tracked animal. Only active animals
// count toward a location's occupancy.
type Animal struct {
	ID                int64      `json:"id"`
	Tag               string     `json:"tag"`
	Name              string     `json:"name,omitempty"`
	Species           string     `json:"species"`
	Status            string     `json:"status"`
	CurrentLocationID *int64     `json:"current_location_id,omitempty"`
	PhotoMime         string     `json:"photo_mime,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}

// Animal statuses.
const (
	AnimalStatusActive   = "active"
	AnimalStatusInactive = "inactive"
)
