// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratings

import (
	"context"
	"fmt"

	"github.com/danielhkuo/card-matchup/models"
)

// Leaderboard returns the top limit names by rating, highest first, each with
// an image from any printing, plus the total number of votes cast
func (s *Store) Leaderboard(ctx context.Context, limit int) (models.Leaderboard, error) {
	board := models.Leaderboard{Entries: []models.LeaderboardEntry{}}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, rating, wins, losses
		FROM card_rating
		ORDER BY rating DESC, name
		LIMIT $1
	`, limit)
	if err != nil {
		return board, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	names := []string{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.Rating, &e.Wins, &e.Losses); err != nil {
			rows.Close()
			return board, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		e.Rank = len(board.Entries) + 1
		board.Entries = append(board.Entries, e)
		names = append(names, e.Name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return board, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	if len(names) > 0 {
		images, err := s.catalog.ImagesByName(ctx, names)
		if err != nil {
			return board, err
		}
		for i := range board.Entries {
			board.Entries[i].ImageURL = images[board.Entries[i].Name]
		}
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vote`).Scan(&board.TotalVotes)
	if err != nil {
		return board, fmt.Errorf("failed to count votes: %w", err)
	}

	return board, nil
}
