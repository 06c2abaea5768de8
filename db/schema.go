// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// CreateSchema creates all tables needed for the application and seeds the
// first settings row (submissions open, not judged) if none exists.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	var schema string
	switch dbType {
	case TypeSQLite:
		schema = sqliteSchema
	case TypePostgres:
		schema = postgresSchema
	default:
		return fmt.Errorf("unsupported database type: %s", dbType)
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := db.Exec(seedSettings); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	return nil
}

// DriverName maps a database type to its registered database/sql driver
func DriverName(dbType string) (string, error) {
	switch dbType {
	case TypeSQLite:
		return "sqlite", nil
	case TypePostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// The settings history is append-only. setting_id is assigned by the
// writer as latest+1 so that two concurrent writers collide on the key.
const seedSettings = `
INSERT INTO setting (setting_id, submissions_open, judging_complete)
VALUES (1, TRUE, FALSE)
ON CONFLICT (setting_id) DO NOTHING
`

// AUTOINCREMENT keeps SQLite from reusing the id of a deleted max row.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS submission (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT NOT NULL UNIQUE,
    author_name TEXT NOT NULL,
    token TEXT NOT NULL,
    winner_mark TEXT,
    embedding BLOB NOT NULL,
    hand_over INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_submission_winner_mark ON submission(winner_mark);

CREATE TABLE IF NOT EXISTS setting (
    setting_id INTEGER PRIMARY KEY,
    submissions_open BOOLEAN NOT NULL,
    judging_complete BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS submission (
    id BIGSERIAL PRIMARY KEY,
    text TEXT NOT NULL UNIQUE,
    author_name TEXT NOT NULL,
    token TEXT NOT NULL,
    winner_mark TEXT,
    embedding BYTEA NOT NULL,
    hand_over INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_submission_winner_mark ON submission(winner_mark);

CREATE TABLE IF NOT EXISTS setting (
    setting_id BIGINT PRIMARY KEY,
    submissions_open BOOLEAN NOT NULL,
    judging_complete BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`
