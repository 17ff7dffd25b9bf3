// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/danielhkuo/card-matchup/models"
	"github.com/danielhkuo/card-matchup/ratings"
	"github.com/danielhkuo/card-matchup/sweeper"
)

var ErrUnknownCommand = errors.New("unknown command")

// Rebuilder recomputes every rating from the vote history
type Rebuilder interface {
	Rebuild(ctx context.Context) (ratings.RebuildResult, error)
}

// Tallier ranks card names by raw win rate
type Tallier interface {
	Tally(ctx context.Context, limit int) (models.TallyReport, error)
}

// Sweeper removes and reports on unvoted matchups
type Sweeper interface {
	Sweep(ctx context.Context, maxAge time.Duration, dryRun bool) (sweeper.Report, error)
	Stats(ctx context.Context, buckets []sweeper.Bucket) (sweeper.StatsReport, error)
}

// Deps are the components admin commands operate on
type Deps struct {
	Ratings Rebuilder
	Ledger  Tallier
	Sweeper Sweeper
}

type command struct {
	usage string
	run   func(ctx context.Context, w io.Writer, deps Deps, args []string) error
}

var registry = map[string]command{
	"recalculate": {"rebuild all ratings from the vote history", recalculate},
	"tally":       {"rank cards by raw win rate [-n 500]", tally},
	"cleanup":     {"delete stale unvoted matchups [--hours 24] [--dry-run]", cleanup},
	"stats":       {"count unvoted matchups by age", stats},
}

// Exists reports whether name is an admin command
func Exists(name string) bool {
	_, ok := registry[name]
	return ok
}

// Run executes the named admin command, writing its report to w
func Run(ctx context.Context, w io.Writer, deps Deps, name string, args []string) error {
	cmd, ok := registry[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	return cmd.run(ctx, w, deps, args)
}

// Usage writes the list of admin commands to w
func Usage(w io.Writer) {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Commands:")
	fmt.Fprintf(w, "  %-12s %s\n", "serve", "run the HTTP server (default)")
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, registry[name].usage)
	}
}
