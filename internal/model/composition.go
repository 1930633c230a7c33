package model

// Composition links one outfit to one component. Links are soft-deleted
// like everything else: removing a component from an outfit deactivates
// the row, and re-adding the same pairing reactivates it, so link ids
// stay stable for audit history. At most one active row exists per
// (outfit, component) pair.
type Composition struct {
	ID          int64 `json:"id"`
	OutfitID    int64 `json:"outfit_id"`
	ComponentID int64 `json:"component_id"`
	Active      bool  `json:"active"`
}
