// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: matchup database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - CatalogPath: MTGJSON AllPrintings.sqlite path (required)
  - CatalogLanguages: language allow-list (default: catalog.DefaultLanguages)
  - MaxAttempts: sampling attempts per matchup (default: 5)
  - SweepSchedule: cron spec for the retention sweep (default: @hourly)
  - SweepMaxAgeHours: unvoted matchup age limit (default: 24)
  - VerifyVoteCards: re-check cards against the catalog on vote
  - Command, CommandArgs: subcommand and its arguments (default: serve)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-catalog         Catalog path
	-languages       Comma-separated languages
	-max-attempts    Sampling attempts
	-sweep-schedule  Cron schedule
	-sweep-hours     Sweep age in hours
	-verify-cards    Verify cards on vote
	-env-file        dotenv file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	CATALOG_PATH         → -catalog
	CATALOG_LANGUAGES    → -languages
	MATCHUP_MAX_ATTEMPTS → -max-attempts
	SWEEP_SCHEDULE       → -sweep-schedule (set but empty disables the sweep)
	SWEEP_MAX_AGE_HOURS  → -sweep-hours
	VERIFY_VOTE_CARDS    → -verify-cards

CLI flags take precedence over environment variables, and the environment
takes precedence over the dotenv file.

# Commands

Arguments after the flags select a command:

	card-matchup -d postgres://... -t postgres cleanup --hours 48 --dry-run

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(deps)
*/
package cliparse
