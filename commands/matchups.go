// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/card-matchup/sweeper"
)

const defaultCleanupHours = 24

func cleanup(ctx context.Context, w io.Writer, deps Deps, args []string) error {
	fs := flag.NewFlagSet("cleanup", flag.ContinueOnError)
	fs.SetOutput(w)
	hours := fs.Int("hours", defaultCleanupHours, "delete matchups older than this many hours")
	dryRun := fs.Bool("dry-run", false, "show what would be deleted without deleting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *hours < 1 {
		return fmt.Errorf("--hours must be positive, got %d", *hours)
	}

	age := english.Plural(*hours, "hour", "")
	report, err := deps.Sweeper.Sweep(ctx, time.Duration(*hours)*time.Hour, *dryRun)
	if err != nil {
		return err
	}

	if report.Matched == 0 {
		fmt.Fprintf(w, "No unvoted matchups older than %s found.\n", age)
		return nil
	}

	if !*dryRun {
		fmt.Fprintf(w, "Deleted %s unvoted %s older than %s.\n",
			humanize.Comma(report.Deleted),
			english.PluralWord(int(report.Deleted), "matchup", ""),
			age)
		return nil
	}

	fmt.Fprintf(w, "DRY RUN: Would delete %s unvoted %s older than %s.\n",
		humanize.Comma(report.Matched),
		english.PluralWord(int(report.Matched), "matchup", ""),
		age)

	if len(report.Samples) > 0 {
		fmt.Fprintln(w, "\nOldest matchups that would be deleted:")
		for _, s := range report.Samples {
			fmt.Fprintf(w, "  - %s (created %.1f hours ago)\n", s.Token, s.Age.Hours())
		}
		if rest := report.Matched - int64(len(report.Samples)); rest > 0 {
			fmt.Fprintf(w, "  ... and %s more\n", humanize.Comma(rest))
		}
	}

	return nil
}

func stats(ctx context.Context, w io.Writer, deps Deps, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(w)
	if err := fs.Parse(args); err != nil {
		return err
	}

	report, err := deps.Sweeper.Stats(ctx, sweeper.DefaultBuckets)
	if err != nil {
		return err
	}

	if report.Total == 0 {
		fmt.Fprintln(w, "No unvoted matchups found.")
		return nil
	}

	fmt.Fprintln(w, "\nUnvoted Matchup Statistics")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "Total unvoted matchups: %s\n\n", humanize.Comma(int64(report.Total)))

	for _, b := range report.Buckets {
		fmt.Fprintf(w, "%12s: %6s (%5.1f%%)\n", b.Label, humanize.Comma(int64(b.Count)), report.Percent(b))
	}

	return nil
}
