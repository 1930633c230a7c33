package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"garderoba/internal/model"
	"garderoba/internal/query"
)

// OutfitParams holds the writable outfit fields for creation. New
// outfits start with an empty composition, so total_cost is zero.
type OutfitParams struct {
	Name        string
	Description string
	Notes       string
}

// OutfitUpdate holds partial outfit updates. Nil fields are unchanged.
// TotalCost and Score are deliberately absent: the composition engine
// owns the former and the score operations own the latter.
type OutfitUpdate struct {
	Name        *string
	Description *string
	Notes       *string
	Flagged     *bool
}

const outfitColumns = `id, name, description, notes, total_cost, score,
	image IS NOT NULL, active, flagged, created_at, updated_at`

// CreateOutfit creates a new outfit with no components.
func CreateOutfit(ctx context.Context, db *sql.DB, params OutfitParams) (*model.Outfit, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO outfits (name, description, notes) VALUES (?, ?, ?)`,
		name, params.Description, params.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating outfit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting outfit id: %w", err)
	}

	return GetOutfit(ctx, db, id)
}

// GetOutfit returns an outfit by ID.
func GetOutfit(ctx context.Context, db *sql.DB, id int64) (*model.Outfit, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+outfitColumns+` FROM outfits WHERE id = ?`, id,
	)
	o, err := scanOutfit(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting outfit: %w", err)
	}
	return o, nil
}

// ListOutfits returns outfits matching the filter.
func ListOutfits(ctx context.Context, db *sql.DB, filter query.FilterSpec) ([]model.Outfit, error) {
	q := `SELECT ` + outfitColumns + ` FROM outfits WHERE 1=1`
	var args []any

	if !filter.IncludeInactive {
		q += ` AND active = 1`
	}
	if filter.FlaggedOnly {
		q += ` AND flagged = 1`
	}
	if filter.Search != "" {
		q += ` AND (name LIKE ? OR description LIKE ?)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.CostMin != nil {
		q += ` AND total_cost >= ?`
		args = append(args, *filter.CostMin)
	}
	if filter.CostMax != nil {
		q += ` AND total_cost <= ?`
		args = append(args, *filter.CostMax)
	}

	q += orderClause(filter, map[string]string{
		query.SortName:    "name",
		query.SortCost:    "total_cost",
		query.SortCreated: "created_at",
	})

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing outfits: %w", err)
	}
	defer rows.Close()

	var outfits []model.Outfit
	for rows.Next() {
		o, err := scanOutfit(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning outfit: %w", err)
		}
		outfits = append(outfits, *o)
	}
	return outfits, rows.Err()
}

// UpdateOutfit applies a partial update and returns the updated outfit.
func UpdateOutfit(ctx context.Context, db *sql.DB, id int64, update OutfitUpdate) (*model.Outfit, error) {
	if _, err := GetOutfit(ctx, db, id); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, validationErr("name", "must not be empty")
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}
	if update.Flagged != nil {
		sets = append(sets, "flagged = ?")
		args = append(args, *update.Flagged)
	}

	args = append(args, id)
	_, err := db.ExecContext(ctx,
		`UPDATE outfits SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating outfit: %w", err)
	}

	return GetOutfit(ctx, db, id)
}

// DeactivateOutfit soft-deletes an outfit and deactivates all its
// composition links so the outfit no longer shows up for any component.
// Idempotent.
func DeactivateOutfit(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := GetOutfit(ctx, db, id); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE outfits SET active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND active = 1`,
		id,
	); err != nil {
		return fmt.Errorf("deactivating outfit: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE compositions SET active = 0 WHERE outfit_id = ? AND active = 1`,
		id,
	); err != nil {
		return fmt.Errorf("deactivating outfit links: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing outfit deactivation: %w", err)
	}
	return nil
}

// IncrementScore adds one to an outfit's score and returns the new
// value. The arithmetic happens in the database so concurrent
// increments are never lost.
func IncrementScore(ctx context.Context, db *sql.DB, id int64) (int64, error) {
	var score int64
	err := db.QueryRowContext(ctx,
		`UPDATE outfits SET score = score + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? RETURNING score`, id,
	).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("incrementing score: %w", err)
	}
	return score, nil
}

// DecrementScore subtracts one from an outfit's score, flooring at
// zero. Decrementing at zero is a no-op returning zero.
func DecrementScore(ctx context.Context, db *sql.DB, id int64) (int64, error) {
	var score int64
	err := db.QueryRowContext(ctx,
		`UPDATE outfits SET score = MAX(score - 1, 0), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? RETURNING score`, id,
	).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("decrementing score: %w", err)
	}
	return score, nil
}

// SetScore sets an outfit's score to an exact non-negative value (the
// manual edit path).
func SetScore(ctx context.Context, db *sql.DB, id, value int64) (int64, error) {
	if value < 0 {
		return 0, validationErr("score", "must not be negative")
	}

	var score int64
	err := db.QueryRowContext(ctx,
		`UPDATE outfits SET score = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? RETURNING score`, value, id,
	).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("setting score: %w", err)
	}
	return score, nil
}

// SetOutfitImage stores the canonical image blob for an outfit. A nil
// blob clears the image.
func SetOutfitImage(ctx context.Context, db *sql.DB, id int64, image []byte) error {
	if _, err := GetOutfit(ctx, db, id); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx,
		`UPDATE outfits SET image = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, id,
	)
	if err != nil {
		return fmt.Errorf("setting outfit image: %w", err)
	}
	return nil
}

// GetOutfitImage returns an outfit's stored image blob, or nil if the
// outfit has no image.
func GetOutfitImage(ctx context.Context, db *sql.DB, id int64) ([]byte, error) {
	var image []byte
	err := db.QueryRowContext(ctx,
		`SELECT image FROM outfits WHERE id = ?`, id,
	).Scan(&image)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting outfit image: %w", err)
	}
	return image, nil
}

func scanOutfit(scan func(...any) error) (*model.Outfit, error) {
	o := &model.Outfit{}
	var description, notes sql.NullString
	err := scan(&o.ID, &o.Name, &description, &notes, &o.TotalCost, &o.Score,
		&o.HasImage, &o.Active, &o.Flagged, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Description = description.String
	o.Notes = notes.String
	return o, nil
}
