package model

import "time"

// Component is a single catalogued clothing item. Cost is stored in
// integer minor currency units (cents) so aggregation stays exact.
// VendorID and PieceID are weak references: they may point at
// deactivated rows, but never at rows that don't exist.
type Component struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	Cost        int64     `json:"cost"`
	Description string    `json:"description,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	VendorID    *int64    `json:"vendor_id,omitempty"`
	PieceID     *int64    `json:"piece_id,omitempty"`
	VendorName  string    `json:"vendor_name,omitempty"`
	PieceName   string    `json:"piece_name,omitempty"`
	HasImage    bool      `json:"has_image"`
	Active      bool      `json:"active"`
	Flagged     bool      `json:"flagged"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
