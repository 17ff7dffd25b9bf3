// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sweeper removes abandoned matchups and reports on their ages.
//
// Every page view issues a matchup but not every matchup gets a vote. Unvoted
// rows older than a cutoff are deleted. Voted rows are kept forever.
package sweeper
