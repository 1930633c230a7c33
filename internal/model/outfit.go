package model

import "time"

// Outfit is a named collection of components. TotalCost is a cached
// aggregate in cents, recomputed by the store whenever composition
// membership changes. Score is a manual counter that never goes below
// zero.
type Outfit struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	TotalCost   int64     `json:"total_cost"`
	Score       int64     `json:"score"`
	HasImage    bool      `json:"has_image"`
	Active      bool      `json:"active"`
	Flagged     bool      `json:"flagged"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
