// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the card matchup server.

Card matchup shows two random Magic: The Gathering cards, records which one
a visitor prefers, and ranks card names by Elo rating. Cards come from a
read-only MTGJSON SQLite dump; matchups, votes and ratings live in
PostgreSQL or SQLite.

# Starting the Server

	DATABASE_URL=matchup.db CATALOG_PATH=AllPrintings.sqlite go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -catalog AllPrintings.sqlite

# Admin Commands

The same binary runs maintenance against the live database:

	go run . recalculate
	go run . tally -n 100
	go run . cleanup --hours 24 --dry-run
	go run . stats

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string or SQLite file
  - CATALOG_PATH (-catalog): MTGJSON SQLite file

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - CATALOG_LANGUAGES (-languages): comma-separated language allow-list
  - MATCHUP_MAX_ATTEMPTS (-max-attempts): draws per matchup (default: 5)
  - SWEEP_SCHEDULE (-sweep-schedule): cron spec, empty disables (default: @hourly)
  - SWEEP_MAX_AGE_HOURS (-sweep-hours): sweep cutoff (default: 24)
  - VERIFY_VOTE_CARDS (-verify-cards): re-check cards on vote (default: false)

A .env file in the working directory is loaded first.

# Architecture

  - elo: rating math
  - catalog: MTGJSON reader
  - matchup: matchup issuing
  - ledger: vote acceptance and tally
  - ratings: incremental ratings, rebuild, leaderboard
  - sweeper: stale matchup cleanup
  - jobs: cron-scheduled sweep
  - commands: admin subcommands
  - handlers, router, middleware, metrics: HTTP surface
  - models, auth, db, cliparse: shared types and plumbing

See package documentation for each component.
*/
package main
