package model

import "time"

// Location represents a physical holding area (barn, pasture, pen) with a
// fixed animal capacity.
type Location struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	Capacity  int        `json:"capacity"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Location statuses. Inactive locations are excluded from availability
// queries but can still be looked up directly.
const (
	LocationStatusActive   = "active"
	LocationStatusInactive = "inactive"
)

// Common location types. The type column is free-form; these are the values
// the UI offers.
const (
	LocationTypeBarn    = "barn"
	LocationTypePasture = "pasture"
	LocationTypePen     = "pen"
)

// Occupancy is the live head count of a location against its capacity.
// Rate is the occupancy percentage; it is nil when capacity is zero.
type Occupancy struct {
	Current  int      `json:"current"`
	Capacity int      `json:"capacity"`
	Rate     *float64 `json:"rate"`
}
