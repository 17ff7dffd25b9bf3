// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package commands implements the admin subcommands of the server binary.

	recalculate              rebuild all ratings from the vote history
	tally [-n 500]           rank cards by raw win rate
	cleanup [--hours 24] [--dry-run]
	                         delete stale unvoted matchups
	stats                    count unvoted matchups by age

Commands run against the same database as live traffic and print a plain
text report.
*/
package commands
