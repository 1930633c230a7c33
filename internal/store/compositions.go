package store

import (
	"context"
	"database/sql"
	"fmt"

	"garderoba/internal/model"
)

// AddComponent composes a component into an outfit. Both must exist and
// be active, and the pair must not already be actively composed. If the
// pair was composed before and removed, the existing link row is
// reactivated so link ids stay stable. The link change and the total
// recompute commit together or not at all.
func AddComponent(ctx context.Context, db *sql.DB, outfitID, componentID int64) (*model.Outfit, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireActive(ctx, tx, "outfits", outfitID); err != nil {
		return nil, err
	}
	if err := requireActive(ctx, tx, "components", componentID); err != nil {
		return nil, err
	}

	var linkID int64
	var linkActive bool
	err = tx.QueryRowContext(ctx,
		`SELECT id, active FROM compositions
		 WHERE outfit_id = ? AND component_id = ?
		 ORDER BY id DESC LIMIT 1`,
		outfitID, componentID,
	).Scan(&linkID, &linkActive)
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO compositions (outfit_id, component_id) VALUES (?, ?)`,
			outfitID, componentID,
		); err != nil {
			return nil, fmt.Errorf("creating composition: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("checking composition: %w", err)
	case linkActive:
		return nil, ErrAlreadyComposed
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE compositions SET active = 1 WHERE id = ?`, linkID,
		); err != nil {
			return nil, fmt.Errorf("reactivating composition: %w", err)
		}
	}

	if err := recomputeTotalCost(ctx, tx, outfitID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing composition: %w", err)
	}

	return GetOutfit(ctx, db, outfitID)
}

// RemoveComponent removes a component from an outfit. Removing a
// component that is not currently composed is a no-op success, matching
// the idempotent soft-delete semantics everywhere else. Both ids must
// still exist.
func RemoveComponent(ctx context.Context, db *sql.DB, outfitID, componentID int64) (*model.Outfit, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireExists(ctx, tx, "outfits", outfitID); err != nil {
		return nil, err
	}
	if err := requireExists(ctx, tx, "components", componentID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE compositions SET active = 0
		 WHERE outfit_id = ? AND component_id = ? AND active = 1`,
		outfitID, componentID,
	); err != nil {
		return nil, fmt.Errorf("removing composition: %w", err)
	}

	if err := recomputeTotalCost(ctx, tx, outfitID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing composition removal: %w", err)
	}

	return GetOutfit(ctx, db, outfitID)
}

// ListOutfitComponents returns the active components composed into an
// outfit, via active links.
func ListOutfitComponents(ctx context.Context, db *sql.DB, outfitID int64) ([]model.Component, error) {
	if err := requireExists(ctx, db, "outfits", outfitID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+componentColumns+`
		 FROM compositions l
		 JOIN components c ON c.id = l.component_id`+componentJoins+`
		 WHERE l.outfit_id = ? AND l.active = 1 AND c.active = 1
		 ORDER BY c.name`, outfitID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing outfit components: %w", err)
	}
	defer rows.Close()

	var components []model.Component
	for rows.Next() {
		c, err := scanComponent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning outfit component: %w", err)
		}
		components = append(components, *c)
	}
	return components, rows.Err()
}

// ListComponentOutfits returns the active outfits a component is
// composed into, via active links.
func ListComponentOutfits(ctx context.Context, db *sql.DB, componentID int64) ([]model.Outfit, error) {
	if err := requireExists(ctx, db, "components", componentID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT o.id, o.name, o.description, o.notes, o.total_cost, o.score,
		        o.image IS NOT NULL, o.active, o.flagged, o.created_at, o.updated_at
		 FROM compositions l
		 JOIN outfits o ON o.id = l.outfit_id
		 WHERE l.component_id = ? AND l.active = 1 AND o.active = 1
		 ORDER BY o.name`, componentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing component outfits: %w", err)
	}
	defer rows.Close()

	var outfits []model.Outfit
	for rows.Next() {
		o, err := scanOutfit(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning component outfit: %w", err)
		}
		outfits = append(outfits, *o)
	}
	return outfits, rows.Err()
}

// recomputeTotalCost replaces an outfit's cached total with a full sum
// over its active links joined to active components. Always a full
// recompute, never an incremental delta, so the cache cannot drift.
func recomputeTotalCost(ctx context.Context, tx *sql.Tx, outfitID int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE outfits SET total_cost = (
		     SELECT COALESCE(SUM(c.cost), 0)
		     FROM compositions l
		     JOIN components c ON c.id = l.component_id
		     WHERE l.outfit_id = ? AND l.active = 1 AND c.active = 1
		 ), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		outfitID, outfitID,
	)
	if err != nil {
		return fmt.Errorf("recomputing total cost: %w", err)
	}
	return nil
}

// querier is the subset of *sql.DB and *sql.Tx the existence checks need.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// requireExists returns ErrNotFound unless a row with the id exists,
// active or not.
func requireExists(ctx context.Context, q querier, table string, id int64) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking %s existence: %w", table, err)
	}
	return nil
}

// requireActive returns ErrNotFound unless an active row with the id
// exists. Deactivated entities cannot take part in new compositions.
func requireActive(ctx context.Context, q querier, table string, id int64) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ? AND active = 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking %s existence: %w", table, err)
	}
	return nil
}
