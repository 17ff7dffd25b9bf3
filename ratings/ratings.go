// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/danielhkuo/card-matchup/elo"
	"github.com/danielhkuo/card-matchup/models"
)

var ErrNotFound = errors.New("rating not found")

// Catalog is the part of the card catalog the rating store needs
type Catalog interface {
	Names(ctx context.Context, uuids []string) (map[string]string, error)
	ImagesByName(ctx context.Context, names []string) (map[string]string, error)
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store keeps one rating row per card name
type Store struct {
	db      *sql.DB
	catalog Catalog
	now     func() time.Time
}

func NewStore(db *sql.DB, catalog Catalog) *Store {
	return &Store{
		db:      db,
		catalog: catalog,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewRating returns the state of a name that has never been voted on
func NewRating(name string) models.Rating {
	return models.Rating{Name: name, Rating: elo.DefaultRating}
}

// Apply records one result between a and b. Both the incremental path and
// Rebuild go through here, which keeps them numerically identical.
// When a and b are the same name, the single row takes both the win and the
// loss and ends at b's new rating.
func Apply(a, b models.Rating, aWon bool) (models.Rating, models.Rating) {
	if a.Name == b.Name {
		_, a.Rating = elo.UpdateRatings(a.Rating, b.Rating, aWon)
		a.Wins++
		a.Losses++
		return a, a
	}

	a.Rating, b.Rating = elo.UpdateRatings(a.Rating, b.Rating, aWon)
	if aWon {
		a.Wins++
		b.Losses++
	} else {
		b.Wins++
		a.Losses++
	}
	return a, b
}

// rateable reports whether a vote between the two names moves ratings.
// Votes on cards missing from the catalog don't.
func rateable(name1, name2 string) bool {
	return name1 != "" && name2 != ""
}

// ApplyVote updates the ratings of both cards in v inside tx. It returns
// false without error when the vote is not rateable.
// Rows are locked in name order so concurrent votes on the same names
// serialize without deadlocking.
func (s *Store) ApplyVote(ctx context.Context, tx *sql.Tx, v models.Vote) (bool, error) {
	names, err := s.catalog.Names(ctx, []string{v.Card1UUID, v.Card2UUID})
	if err != nil {
		return false, err
	}

	name1, name2 := names[v.Card1UUID], names[v.Card2UUID]
	if !rateable(name1, name2) {
		slog.Debug("vote not rateable", "vote_id", v.ID, "name_1", name1, "name_2", name2)
		return false, nil
	}

	now := s.now()
	ordered := []string{name1, name2}
	sort.Strings(ordered)
	for _, name := range ordered {
		if err := lockRating(ctx, tx, name, now); err != nil {
			return false, err
		}
	}

	r1, err := getRating(ctx, tx, name1)
	if err != nil {
		return false, err
	}
	r2, err := getRating(ctx, tx, name2)
	if err != nil {
		return false, err
	}

	r1, r2 = Apply(r1, r2, v.Card1Won())

	for _, r := range []models.Rating{r1, r2} {
		if err := putRating(ctx, tx, r, now); err != nil {
			return false, err
		}
	}

	return true, nil
}

// lockRating creates the row with defaults if needed, then takes its row
// lock with a no-op update
func lockRating(ctx context.Context, tx *sql.Tx, name string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO card_rating (name, rating, wins, losses, updated_at)
		VALUES ($1, $2, 0, 0, $3)
		ON CONFLICT (name) DO NOTHING
	`, name, elo.DefaultRating, now)
	if err != nil {
		return fmt.Errorf("failed to create rating for %q: %w", name, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE card_rating SET updated_at = $1 WHERE name = $2`, now, name)
	if err != nil {
		return fmt.Errorf("failed to lock rating for %q: %w", name, err)
	}
	return nil
}

func getRating(ctx context.Context, q queryer, name string) (models.Rating, error) {
	r := models.Rating{Name: name}
	err := q.QueryRowContext(ctx, `
		SELECT rating, wins, losses FROM card_rating WHERE name = $1
	`, name).Scan(&r.Rating, &r.Wins, &r.Losses)

	if err == sql.ErrNoRows {
		return models.Rating{}, ErrNotFound
	}
	if err != nil {
		return models.Rating{}, fmt.Errorf("failed to query rating for %q: %w", name, err)
	}
	return r, nil
}

func putRating(ctx context.Context, tx *sql.Tx, r models.Rating, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE card_rating
		SET rating = $1, wins = $2, losses = $3, updated_at = $4
		WHERE name = $5
	`, r.Rating, r.Wins, r.Losses, now, r.Name)
	if err != nil {
		return fmt.Errorf("failed to update rating for %q: %w", r.Name, err)
	}
	return nil
}

// Get returns the current rating for a card name
func (s *Store) Get(ctx context.Context, name string) (models.Rating, error) {
	return getRating(ctx, s.db, name)
}

// All returns every rating ordered by name
func (s *Store) All(ctx context.Context) ([]models.Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, rating, wins, losses FROM card_rating ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.Name, &r.Rating, &r.Wins, &r.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}
