// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/card-matchup/ledger"
)

const nameWidth = 40

func recalculate(ctx context.Context, w io.Writer, deps Deps, args []string) error {
	fs := flag.NewFlagSet("recalculate", flag.ContinueOnError)
	fs.SetOutput(w)
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintln(w, "Recalculating ratings from the vote history...")

	result, err := deps.Ratings.Rebuild(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Cleared %s.\n", english.Plural(int(result.Cleared), "existing rating", ""))
	fmt.Fprintf(w, "Replayed %s %s, skipped %s.\n",
		humanize.Comma(int64(result.Replayed)),
		english.PluralWord(result.Replayed, "vote", ""),
		humanize.Comma(int64(result.Skipped)))
	fmt.Fprintf(w, "Done: %s %s rated.\n",
		humanize.Comma(int64(result.Rated)),
		english.PluralWord(result.Rated, "card", ""))

	return nil
}

func tally(ctx context.Context, w io.Writer, deps Deps, args []string) error {
	fs := flag.NewFlagSet("tally", flag.ContinueOnError)
	fs.SetOutput(w)
	n := fs.Int("n", ledger.DefaultTallyLimit, "number of top cards to display")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n < 1 {
		return fmt.Errorf("-n must be positive, got %d", *n)
	}

	report, err := deps.Ledger.Tally(ctx, *n)
	if err != nil {
		return err
	}

	if report.VoteCount == 0 {
		fmt.Fprintln(w, "No votes recorded yet.")
		return nil
	}

	fmt.Fprintf(w, "\nTop %s (%s %s tallied)\n\n",
		english.Plural(len(report.Entries), "card", ""),
		humanize.Comma(int64(report.VoteCount)),
		english.PluralWord(report.VoteCount, "vote", ""))
	fmt.Fprintf(w, "%-6s%-*s%6s%7s%8s\n", "Rank", nameWidth, "Card", "Wins", "Shown", "Win %")
	fmt.Fprintln(w, strings.Repeat("-", 6+nameWidth+6+7+8))

	for _, e := range report.Entries {
		fmt.Fprintf(w, "%-6d%-*s%6d%7d%7.1f%%\n",
			e.Rank, nameWidth, truncate(e.Name, nameWidth-1), e.Wins, e.Appearances, e.WinRate*100)
	}

	return nil
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
