package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"garderoba/internal/model"
	"garderoba/internal/query"
)

// VendorUpdate holds partial vendor updates. Nil fields are unchanged.
type VendorUpdate struct {
	Name        *string
	Description *string
	Flagged     *bool
}

// CreateVendor creates a new vendor. The name must be non-empty after
// trimming and unique among active vendors.
func CreateVendor(ctx context.Context, db *sql.DB, name, description string) (*model.Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO vendors (name, description) VALUES (?, ?)`,
		name, description,
	)
	if isUniqueViolation(err, "vendors.name") {
		return nil, validationErr("name", "already in use by an active vendor")
	}
	if err != nil {
		return nil, fmt.Errorf("creating vendor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting vendor id: %w", err)
	}

	return GetVendor(ctx, db, id)
}

// GetVendor returns a vendor by ID. Deactivated vendors remain
// addressable for detail views.
func GetVendor(ctx context.Context, db *sql.DB, id int64) (*model.Vendor, error) {
	v := &model.Vendor{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, active, flagged, created_at, updated_at
		 FROM vendors WHERE id = ?`, id,
	).Scan(&v.ID, &v.Name, &description, &v.Active, &v.Flagged, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting vendor: %w", err)
	}
	v.Description = description.String
	return v, nil
}

// ListVendors returns vendors matching the filter, active only unless
// the filter says otherwise.
func ListVendors(ctx context.Context, db *sql.DB, filter query.FilterSpec) ([]model.Vendor, error) {
	q := `SELECT id, name, description, active, flagged, created_at, updated_at
	      FROM vendors WHERE 1=1`
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

	q += orderClause(filter, map[string]string{
		query.SortName:    "name",
		query.SortCreated: "created_at",
	})

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		var v model.Vendor
		var description sql.NullString
		if err := rows.Scan(&v.ID, &v.Name, &description, &v.Active, &v.Flagged, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}
		v.Description = description.String
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// UpdateVendor applies a partial update and returns the updated vendor.
func UpdateVendor(ctx context.Context, db *sql.DB, id int64, update VendorUpdate) (*model.Vendor, error) {
	if _, err := GetVendor(ctx, db, id); err != nil {
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
	if update.Flagged != nil {
		sets = append(sets, "flagged = ?")
		args = append(args, *update.Flagged)
	}

	args = append(args, id)
	_, err := db.ExecContext(ctx,
		`UPDATE vendors SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if isUniqueViolation(err, "vendors.name") {
		return nil, validationErr("name", "already in use by an active vendor")
	}
	if err != nil {
		return nil, fmt.Errorf("updating vendor: %w", err)
	}

	return GetVendor(ctx, db, id)
}

// DeactivateVendor soft-deletes a vendor. Deactivating twice is a no-op
// success. Components referencing the vendor keep their weak reference.
func DeactivateVendor(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := GetVendor(ctx, db, id); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx,
		`UPDATE vendors SET active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND active = 1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deactivating vendor: %w", err)
	}
	return nil
}

// orderClause builds an ORDER BY from the filter's sort field, mapped
// through the table's column map. Unknown fields sort by name.
func orderClause(filter query.FilterSpec, columns map[string]string) string {
	col, ok := columns[filter.SortBy]
	if !ok {
		col = columns[query.SortName]
	}
	dir := "ASC"
	if filter.SortDir == query.DirDesc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}
