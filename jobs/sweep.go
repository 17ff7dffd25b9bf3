// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/card-matchup/sweeper"
)

// runTimeout caps a single scheduled sweep
const runTimeout = 5 * time.Minute

// Sweeper is the retention sweep the job runs
type Sweeper interface {
	Sweep(ctx context.Context, maxAge time.Duration, dryRun bool) (sweeper.Report, error)
}

// SweepConfig controls the scheduled sweep
type SweepConfig struct {
	Schedule string        // cron spec or descriptor such as "@hourly"; empty disables
	MaxAge   time.Duration // unvoted matchups older than this are deleted
}

// SweepJob deletes stale unvoted matchups on a cron schedule
type SweepJob struct {
	sweeper Sweeper
	config  SweepConfig
	cron    *cron.Cron
}

func NewSweepJob(s Sweeper, config SweepConfig) *SweepJob {
	return &SweepJob{
		sweeper: s,
		config:  config,
		cron:    cron.New(),
	}
}

// Start schedules the sweep. It returns an error for an unparseable schedule.
func (j *SweepJob) Start() error {
	if j.config.Schedule == "" {
		slog.Info("scheduled sweep disabled")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if err := j.RunOnce(ctx); err != nil {
			slog.Error("scheduled sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	j.cron.Start()
	slog.Info("scheduled sweep started", "schedule", j.config.Schedule, "max_age", j.config.MaxAge)

	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish or ctx to
// expire
func (j *SweepJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.Warn("scheduled sweep still running at shutdown")
	}
}

// RunOnce performs a single live sweep
func (j *SweepJob) RunOnce(ctx context.Context) error {
	report, err := j.sweeper.Sweep(ctx, j.config.MaxAge, false)
	if err != nil {
		return err
	}
	slog.Debug("sweep finished", "deleted", report.Deleted)
	return nil
}
