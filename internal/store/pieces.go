package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"garderoba/internal/model"
	"garderoba/internal/query"
)

// PieceUpdate holds partial piece updates. Nil fields are unchanged.
type PieceUpdate struct {
	Name        *string
	Description *string
}

// CreatePiece creates a new clothing category. The name must be
// non-empty after trimming and unique among active pieces.
func CreatePiece(ctx context.Context, db *sql.DB, name, description string) (*model.Piece, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO pieces (name, description) VALUES (?, ?)`,
		name, description,
	)
	if isUniqueViolation(err, "pieces.name") {
		return nil, validationErr("name", "already in use by an active piece")
	}
	if err != nil {
		return nil, fmt.Errorf("creating piece: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting piece id: %w", err)
	}

	return GetPiece(ctx, db, id)
}

// GetPiece returns a piece by ID.
func GetPiece(ctx context.Context, db *sql.DB, id int64) (*model.Piece, error) {
	p := &model.Piece{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, active, created_at, updated_at
		 FROM pieces WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &description, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting piece: %w", err)
	}
	p.Description = description.String
	return p, nil
}

// ListPieces returns pieces matching the filter.
func ListPieces(ctx context.Context, db *sql.DB, filter query.FilterSpec) ([]model.Piece, error) {
	q := `SELECT id, name, description, active, created_at, updated_at
	      FROM pieces WHERE 1=1`
	var args []any

	if !filter.IncludeInactive {
		q += ` AND active = 1`
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
		return nil, fmt.Errorf("listing pieces: %w", err)
	}
	defer rows.Close()

	var pieces []model.Piece
	for rows.Next() {
		var p model.Piece
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &description, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning piece: %w", err)
		}
		p.Description = description.String
		pieces = append(pieces, p)
	}
	return pieces, rows.Err()
}

// UpdatePiece applies a partial update and returns the updated piece.
func UpdatePiece(ctx context.Context, db *sql.DB, id int64, update PieceUpdate) (*model.Piece, error) {
	if _, err := GetPiece(ctx, db, id); err != nil {
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

	args = append(args, id)
	_, err := db.ExecContext(ctx,
		`UPDATE pieces SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if isUniqueViolation(err, "pieces.name") {
		return nil, validationErr("name", "already in use by an active piece")
	}
	if err != nil {
		return nil, fmt.Errorf("updating piece: %w", err)
	}

	return GetPiece(ctx, db, id)
}

// DeactivatePiece soft-deletes a piece. Idempotent.
func DeactivatePiece(ctx context.Context, db *sql.DB, id int64) error {
	if _, err := GetPiece(ctx, db, id); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx,
		`UPDATE pieces SET active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND active = 1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deactivating piece: %w", err)
	}
	return nil
}
