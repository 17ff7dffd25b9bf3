// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open accepts a database type and URL:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:matchup.db")

Both drivers are registered by this package (lib/pq and modernc.org/sqlite).

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, db.TypePostgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The only dialect difference is the sequence column type.

# Tables

The schema includes:

  - matchup: issued pairings and their single-use tokens
  - vote: append-only vote history
  - card_rating: current rating per card name

The card catalog lives in a separate, read-only MTGJSON database (see
package catalog).

# Ordering

vote.id is a sequence. Replays order by (created_at, id) so votes with the
same timestamp are applied in insertion order.

# Indexes

  - matchup.token (unique)
  - matchup.(voted_at, created_at) for the retention sweep
  - vote.(created_at, id) for replay
  - card_rating.rating for the leaderboard
*/
package db
