// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sweeper

import (
	"context"
	"fmt"
	"time"
)

// Bucket is an age range [MinAge, MaxAge). A zero MaxAge has no upper bound.
type Bucket struct {
	Label  string
	MinAge time.Duration
	MaxAge time.Duration
}

// DefaultBuckets splits unvoted matchups around the default sweep age
var DefaultBuckets = []Bucket{
	{Label: "< 2 hours", MinAge: 0, MaxAge: 2 * time.Hour},
	{Label: "2-8 hours", MinAge: 2 * time.Hour, MaxAge: 8 * time.Hour},
	{Label: "8-24 hours", MinAge: 8 * time.Hour, MaxAge: 24 * time.Hour},
	{Label: "24+ hours", MinAge: 24 * time.Hour},
}

type BucketCount struct {
	Bucket
	Count int
}

type StatsReport struct {
	Total   int
	Buckets []BucketCount
}

// Percent returns the share of unvoted matchups in b, 0 when there are none
func (r StatsReport) Percent(b BucketCount) float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(b.Count) * 100 / float64(r.Total)
}

// Stats counts unvoted matchups by age. It never modifies anything.
func (s *Sweeper) Stats(ctx context.Context, buckets []Bucket) (StatsReport, error) {
	var report StatsReport
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM matchup WHERE voted_at IS NULL
	`).Scan(&report.Total)
	if err != nil {
		return StatsReport{}, fmt.Errorf("failed to count unvoted matchups: %w", err)
	}

	now := s.now()
	report.Buckets = make([]BucketCount, 0, len(buckets))
	for _, b := range buckets {
		count, err := s.countBetween(ctx, now, b)
		if err != nil {
			return StatsReport{}, err
		}
		report.Buckets = append(report.Buckets, BucketCount{Bucket: b, Count: count})
	}

	return report, nil
}

func (s *Sweeper) countBetween(ctx context.Context, now time.Time, b Bucket) (int, error) {
	var (
		count int
		err   error
	)

	newest := now.Add(-b.MinAge)
	if b.MaxAge > 0 {
		oldest := now.Add(-b.MaxAge)
		err = s.db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM matchup
			WHERE voted_at IS NULL AND created_at > $1 AND created_at <= $2
		`, oldest, newest).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM matchup
			WHERE voted_at IS NULL AND created_at <= $1
		`, newest).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count bucket %q: %w", b.Label, err)
	}

	return count, nil
}
