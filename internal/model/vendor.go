package model

import "time"

// Vendor represents a shopping source components can be bought from.
// Components reference vendors weakly: deactivating a vendor never
// cascades to the components that point at it.
type Vendor struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	Flagged     bool      `json:"flagged"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
