package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records an animal being sold. Selling deactivates the animal and
// frees its location slot.
type Sale struct {
	ID        int64           `json:"id"`
	AnimalID  int64           `json:"animal_id"`
	Buyer     string          `json:"buyer"`
	Price     decimal.Decimal `json:"price"`
	SoldAt    time.Time       `json:"sold_at"`
	Notes     string          `json:"notes,omitempty"`
	CreatedBy *int64          `json:"created_by,omitempty"`

	// Joined fields (not always populated).
	AnimalTag string `json:"animal_tag,omitempty"`
}

// SalesSummary aggregates sales over a period.
type SalesSummary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}
