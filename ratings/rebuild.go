// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratings

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/danielhkuo/card-matchup/metrics"
	"github.com/danielhkuo/card-matchup/models"
)

// RebuildResult summarizes a full recomputation
type RebuildResult struct {
	Cleared  int64 // rating rows deleted
	Replayed int   // votes applied
	Skipped  int   // votes that were not rateable
	Rated    int   // names with a rating afterwards
}

// Replay folds votes, in order, into per-name ratings. names maps card ids
// to display names; votes whose cards don't resolve are skipped.
func Replay(votes []models.Vote, names map[string]string) (map[string]models.Rating, int) {
	state := make(map[string]models.Rating)
	skipped := 0

	for _, v := range votes {
		name1, name2 := names[v.Card1UUID], names[v.Card2UUID]
		if !rateable(name1, name2) {
			skipped++
			continue
		}

		r1, ok := state[name1]
		if !ok {
			r1 = NewRating(name1)
		}
		r2, ok := state[name2]
		if !ok {
			r2 = NewRating(name2)
		}

		r1, r2 = Apply(r1, r2, v.Card1Won())
		state[name1] = r1
		state[name2] = r2
	}

	return state, skipped
}

// Rebuild discards all ratings and replays the whole vote history in
// (created_at, id) order. It runs in one transaction, so readers see either
// the old or the new ratings.
func (s *Store) Rebuild(ctx context.Context) (RebuildResult, error) {
	var result RebuildResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, card_1_uuid, card_2_uuid, chosen_uuid, created_at
		FROM vote
		ORDER BY created_at, id
	`)
	if err != nil {
		return result, fmt.Errorf("failed to query votes: %w", err)
	}

	var votes []models.Vote
	ids := make(map[string]bool)
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.Card1UUID, &v.Card2UUID, &v.ChosenUUID, &v.CreatedAt); err != nil {
			rows.Close()
			return result, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
		ids[v.Card1UUID] = true
		ids[v.Card2UUID] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("failed to read votes: %w", err)
	}

	uuids := make([]string, 0, len(ids))
	for id := range ids {
		uuids = append(uuids, id)
	}
	names, err := s.catalog.Names(ctx, uuids)
	if err != nil {
		return result, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM card_rating`)
	if err != nil {
		return result, fmt.Errorf("failed to clear ratings: %w", err)
	}
	result.Cleared, _ = res.RowsAffected()

	state, skipped := Replay(votes, names)
	result.Replayed = len(votes) - skipped
	result.Skipped = skipped
	result.Rated = len(state)

	sorted := make([]string, 0, len(state))
	for name := range state {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO card_rating (name, rating, wins, losses, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return result, fmt.Errorf("failed to prepare rating insert: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	for _, name := range sorted {
		r := state[name]
		if _, err := stmt.ExecContext(ctx, r.Name, r.Rating, r.Wins, r.Losses, now); err != nil {
			return result, fmt.Errorf("failed to insert rating for %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit rebuild: %w", err)
	}
	metrics.RatingRebuilds.Inc()

	slog.Info("ratings rebuilt",
		"cleared", result.Cleared,
		"replayed", result.Replayed,
		"skipped", result.Skipped,
		"rated", result.Rated,
	)

	return result, nil
}
