package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"garderoba/internal/model"
	"garderoba/internal/query"
)

// ComponentParams holds the writable component fields for creation.
type ComponentParams struct {
	Name        string
	Brand       string
	Cost        int64
	Description string
	Notes       string
	VendorID    *int64
	PieceID     *int64
}

// ComponentUpdate holds partial component updates. Nil fields are
// unchanged. ClearVendor/ClearPiece drop the weak reference entirely.
type ComponentUpdate struct {
	Name        *string
	Brand       *string
	Cost        *int64
	Description *string
	Notes       *string
	VendorID    *int64
	PieceID     *int64
	ClearVendor bool
	ClearPiece  bool
	Flagged     *bool
}

const componentColumns = `c.id, c.name, c.brand, c.cost, c.description, c.notes,
	c.vendor_id, c.piece_id, v.name, p.name,
	c.image IS NOT NULL, c.active, c.flagged, c.created_at, c.updated_at`

const componentJoins = `
	 LEFT JOIN vendors v ON v.id = c.vendor_id
	 LEFT JOIN pieces p ON p.id = c.piece_id`

// CreateComponent creates a new component. Vendor and piece references
// are weak: they must point at an existing row of the right kind, but
// the row may be deactivated.
func CreateComponent(ctx context.Context, db *sql.DB, params ComponentParams) (*model.Component, error) {
	if err := validateComponent(ctx, db, params.Name, params.Cost, params.VendorID, params.PieceID); err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO components (name, brand, cost, description, notes, vendor_id, piece_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(params.Name), params.Brand, params.Cost,
		params.Description, params.Notes, params.VendorID, params.PieceID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating component: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting component id: %w", err)
	}

	return GetComponent(ctx, db, id)
}

// GetComponent returns a component by ID, with vendor and piece names
// resolved where the references still point at live rows.
func GetComponent(ctx context.Context, db *sql.DB, id int64) (*model.Component, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+componentColumns+` FROM components c`+componentJoins+` WHERE c.id = ?`, id,
	)
	c, err := scanComponent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting component: %w", err)
	}
	return c, nil
}

// ListComponents returns components matching the filter.
func ListComponents(ctx context.Context, db *sql.DB, filter query.FilterSpec) ([]model.Component, error) {
	q := `SELECT ` + componentColumns + ` FROM components c` + componentJoins + ` WHERE 1=1`
	var args []any

	if !filter.IncludeInactive {
		q += ` AND c.active = 1`
	}
	if filter.FlaggedOnly {
		q += ` AND c.flagged = 1`
	}
	if filter.Search != "" {
		q += ` AND (c.name LIKE ? OR c.description LIKE ? OR c.brand LIKE ?)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.VendorID != nil {
		q += ` AND c.vendor_id = ?`
		args = append(args, *filter.VendorID)
	}
	if filter.PieceID != nil {
		q += ` AND c.piece_id = ?`
		args = append(args, *filter.PieceID)
	}
	if filter.CostMin != nil {
		q += ` AND c.cost >= ?`
		args = append(args, *filter.CostMin)
	}
	if filter.CostMax != nil {
		q += ` AND c.cost <= ?`
		args = append(args, *filter.CostMax)
	}

	q += orderClause(filter, map[string]string{
		query.SortName:    "c.name",
		query.SortCost:    "c.cost",
		query.SortBrand:   "c.brand",
		query.SortCreated: "c.created_at",
	})

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing components: %w", err)
	}
	defer rows.Close()

	var components []model.Component
	for rows.Next() {
		c, err := scanComponent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning component: %w", err)
		}
		components = append(components, *c)
	}
	return components, rows.Err()
}

// UpdateComponent applies a partial update and returns the updated
// component. Changing a component's cost never touches any outfit's
// cached total; totals only move on composition changes.
func UpdateComponent(ctx context.Context, db *sql.DB, id int64, update ComponentUpdate) (*model.Component, error) {
	if _, err := GetComponent(ctx, db, id); err != nil {
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
	if update.Brand != nil {
		sets = append(sets, "brand = ?")
		args = append(args, *update.Brand)
	}
	if update.Cost != nil {
		if *update.Cost < 0 {
			return nil, validationErr("cost", "must not be negative")
		}
		sets = append(sets, "cost = ?")
		args = append(args, *update.Cost)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}
	if update.ClearVendor {
		sets = append(sets, "vendor_id = NULL")
	} else if update.VendorID != nil {
		if err := checkReference(ctx, db, "vendors", "vendor_id", *update.VendorID); err != nil {
			return nil, err
		}
		sets = append(sets, "vendor_id = ?")
		args = append(args, *update.VendorID)
	}
	if update.ClearPiece {
		sets = append(sets, "piece_id = NULL")
	} else if update.PieceID != nil {
		if err := checkReference(ctx, db, "pieces", "piece_id", *update.PieceID); err != nil {
			return nil, err
		}
		sets = append(sets, "piece_id = ?")
		args = append(args, *update.PieceID)
	}
	if update.Flagged != nil {
		sets = append(sets, "flagged = ?")
		args = append(args, *update.Flagged)
	}

	args = append(args, id)
	_, err := db.ExecContext(ctx,
		`UPDATE components SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating component: %w", err)
	}

	return GetComponent(ctx, db, id)
}

// DeactivateComponent soft-deletes a component. Idempotent. Outfits
// that compose the component keep their cached total until their own
// membership next changes; the component simply stops counting at the
// next recompute.
func DeactivateComponent(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := GetComponent(ctx, db, id); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx,
		`UPDATE components SET active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND active = 1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deactivating component: %w", err)
	}
	return nil
}

// SetComponentImage stores the canonical image blob for a component.
// A nil blob clears the image.
func SetComponentImage(ctx context.Context, db *sql.DB, id int64, image []byte) error {
	if _, err := GetComponent(ctx, db, id); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx,
		`UPDATE components SET image = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, id,
	)
	if err != nil {
		return fmt.Errorf("setting component image: %w", err)
	}
	return nil
}

// GetComponentImage returns a component's stored image blob, or nil if
// the component has no image.
func GetComponentImage(ctx context.Context, db *sql.DB, id int64) ([]byte, error) {
	var image []byte
	err := db.QueryRowContext(ctx,
		`SELECT image FROM components WHERE id = ?`, id,
	).Scan(&image)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting component image: %w", err)
	}
	return image, nil
}

func validateComponent(ctx context.Context, db *sql.DB, name string, cost int64, vendorID, pieceID *int64) error {
	if strings.TrimSpace(name) == "" {
		return validationErr("name", "must not be empty")
	}
	if cost < 0 {
		return validationErr("cost", "must not be negative")
	}
	if vendorID != nil {
		if err := checkReference(ctx, db, "vendors", "vendor_id", *vendorID); err != nil {
			return err
		}
	}
	if pieceID != nil {
		if err := checkReference(ctx, db, "pieces", "piece_id", *pieceID); err != nil {
			return err
		}
	}
	return nil
}

// checkReference verifies a weak foreign key points at an existing row.
// Deactivated rows are acceptable targets; missing rows are not.
func checkReference(ctx context.Context, db *sql.DB, table, field string, id int64) error {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM `+table+` WHERE id = ?`, id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return validationErr(field, "references a nonexistent id")
	}
	if err != nil {
		return fmt.Errorf("checking %s reference: %w", field, err)
	}
	return nil
}

func scanComponent(scan func(...any) error) (*model.Component, error) {
	c := &model.Component{}
	var brand, description, notes, vendorName, pieceName sql.NullString
	err := scan(&c.ID, &c.Name, &brand, &c.Cost, &description, &notes,
		&c.VendorID, &c.PieceID, &vendorName, &pieceName,
		&c.HasImage, &c.Active, &c.Flagged, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Brand = brand.String
	c.Description = description.String
	c.Notes = notes.String
	c.VendorName = vendorName.String
	c.PieceName = pieceName.String
	return c, nil
}
