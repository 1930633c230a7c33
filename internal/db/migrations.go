package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Nothing is ever hard-deleted:
// every table carries an active flag and default listings filter on it.
const schema = `
CREATE TABLE IF NOT EXISTS vendors (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT,
    active      INTEGER NOT NULL DEFAULT 1,
    flagged     INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_vendors_name_active
    ON vendors(name) WHERE active = 1;

CREATE TABLE IF NOT EXISTS pieces (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT,
    active      INTEGER NOT NULL DEFAULT 1,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_pieces_name_active
    ON pieces(name) WHERE active = 1;

CREATE TABLE IF NOT EXISTS components (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    brand       TEXT,
    cost        INTEGER NOT NULL DEFAULT 0 CHECK (cost >= 0),
    description TEXT,
    notes       TEXT,
    vendor_id   INTEGER REFERENCES vendors(id),
    piece_id    INTEGER REFERENCES pieces(id),
    image       BLOB,
    active      INTEGER NOT NULL DEFAULT 1,
    flagged     INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS outfits (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT,
    notes       TEXT,
    total_cost  INTEGER NOT NULL DEFAULT 0 CHECK (total_cost >= 0),
    score       INTEGER NOT NULL DEFAULT 0 CHECK (score >= 0),
    image       BLOB,
    active      INTEGER NOT NULL DEFAULT 1,
    flagged     INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS compositions (
    id           INTEGER PRIMARY KEY,
    outfit_id    INTEGER NOT NULL REFERENCES outfits(id),
    component_id INTEGER NOT NULL REFERENCES components(id),
    active       INTEGER NOT NULL DEFAULT 1
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_compositions_pair_active
    ON compositions(outfit_id, component_id) WHERE active = 1;

CREATE INDEX IF NOT EXISTS idx_compositions_outfit
    ON compositions(outfit_id);
CREATE INDEX IF NOT EXISTS idx_compositions_component
    ON compositions(component_id);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: databases created before the score counter existed
	// get the column backfilled to zero.
	`UPDATE outfits SET score = 0 WHERE score IS NULL`,
}

// Migrate creates the schema and runs all migrations.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
