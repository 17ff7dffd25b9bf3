// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Open connects to the matchup database and verifies the connection.
// SQLite is limited to a single connection so writers never see SQLITE_BUSY.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypePostgres, TypeSQLite:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	ddl, err := Schema(dbType)
	if err != nil {
		return err
	}

	_, err = db.Exec(ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema returns the DDL for the given database type
func Schema(dbType string) (string, error) {
	var idColumn string
	switch dbType {
	case TypePostgres:
		idColumn = "BIGSERIAL PRIMARY KEY"
	case TypeSQLite:
		idColumn = "INTEGER PRIMARY KEY AUTOINCREMENT"
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
	return strings.ReplaceAll(schema, "{{id}}", idColumn), nil
}

const schema = `
-- Matchups
CREATE TABLE IF NOT EXISTS matchup (
    id {{id}},
    token TEXT NOT NULL UNIQUE,
    card_1_uuid TEXT NOT NULL,
    card_2_uuid TEXT NOT NULL,
    voted_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_matchup_unvoted_created ON matchup(voted_at, created_at);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id {{id}},
    card_1_uuid TEXT NOT NULL,
    card_2_uuid TEXT NOT NULL,
    chosen_uuid TEXT NOT NULL,
    ip_address TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    CHECK (chosen_uuid = card_1_uuid OR chosen_uuid = card_2_uuid)
);

CREATE INDEX IF NOT EXISTS idx_vote_created ON vote(created_at, id);

-- Ratings
CREATE TABLE IF NOT EXISTS card_rating (
    name TEXT PRIMARY KEY,
    rating DOUBLE PRECISION NOT NULL,
    wins INTEGER NOT NULL DEFAULT 0,
    losses INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_card_rating_rating ON card_rating(rating DESC);
`
