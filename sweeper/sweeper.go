// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sweeper

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/card-matchup/metrics"
)

// SampleLimit is the number of matchups a dry run lists
const SampleLimit = 10

// Sweeper deletes matchups that were issued but never voted on
type Sweeper struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Sweeper {
	return &Sweeper{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Sample is one stale matchup listed by a dry run
type Sample struct {
	Token     string
	CreatedAt time.Time
	Age       time.Duration
}

// Report describes one sweep
type Report struct {
	MaxAge  time.Duration
	Cutoff  time.Time
	DryRun  bool
	Matched int64 // unvoted matchups older than the cutoff
	Deleted int64
	Samples []Sample // oldest first, dry run only
}

// Sweep removes unvoted matchups created more than maxAge ago. With dryRun
// nothing is deleted and the oldest candidates are listed instead. Voted
// matchups are never touched.
func (s *Sweeper) Sweep(ctx context.Context, maxAge time.Duration, dryRun bool) (Report, error) {
	if maxAge <= 0 {
		return Report{}, fmt.Errorf("max age must be positive, got %s", maxAge)
	}

	now := s.now()
	report := Report{
		MaxAge: maxAge,
		Cutoff: now.Add(-maxAge),
		DryRun: dryRun,
	}

	if !dryRun {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM matchup WHERE voted_at IS NULL AND created_at < $1
		`, report.Cutoff)
		if err != nil {
			return Report{}, fmt.Errorf("failed to delete stale matchups: %w", err)
		}
		report.Deleted, err = res.RowsAffected()
		if err != nil {
			return Report{}, fmt.Errorf("failed to delete stale matchups: %w", err)
		}
		report.Matched = report.Deleted

		metrics.MatchupsSwept.Add(float64(report.Deleted))
		slog.Info("swept stale matchups", "deleted", report.Deleted, "max_age", maxAge)
		return report, nil
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM matchup WHERE voted_at IS NULL AND created_at < $1
	`, report.Cutoff).Scan(&report.Matched)
	if err != nil {
		return Report{}, fmt.Errorf("failed to count stale matchups: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT token, created_at
		FROM matchup
		WHERE voted_at IS NULL AND created_at < $1
		ORDER BY created_at, id
		LIMIT $2
	`, report.Cutoff, SampleLimit)
	if err != nil {
		return Report{}, fmt.Errorf("failed to query stale matchups: %w", err)
	}
	defer rows.Close()

	report.Samples = []Sample{}
	for rows.Next() {
		var sample Sample
		if err := rows.Scan(&sample.Token, &sample.CreatedAt); err != nil {
			return Report{}, fmt.Errorf("failed to scan matchup: %w", err)
		}
		sample.Age = now.Sub(sample.CreatedAt)
		report.Samples = append(report.Samples, sample)
	}
	if err := rows.Err(); err != nil {
		return Report{}, fmt.Errorf("failed to read stale matchups: %w", err)
	}

	return report, nil
}
