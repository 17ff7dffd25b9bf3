// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matchup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/card-matchup/auth"
	"github.com/danielhkuo/card-matchup/catalog"
	"github.com/danielhkuo/card-matchup/metrics"
	"github.com/danielhkuo/card-matchup/models"
)

// ErrNoCards means no displayable pair could be drawn from the catalog
var ErrNoCards = errors.New("no cards available")

// DefaultMaxAttempts bounds the number of draws per issued matchup
const DefaultMaxAttempts = 5

// sampleSize is one more than a pair so a basic land can be dropped
const sampleSize = 3

// Catalog is the part of the card catalog the issuer draws from
type Catalog interface {
	Sample(ctx context.Context, n int) ([]catalog.Card, error)
	ImageURL(ctx context.Context, uuid string) (string, bool, error)
}

// Issuer draws random card pairs and records them as votable matchups
type Issuer struct {
	db          *sql.DB
	catalog     Catalog
	maxAttempts int
	now         func() time.Time
}

// NewIssuer creates an issuer. A maxAttempts below 1 uses DefaultMaxAttempts.
func NewIssuer(db *sql.DB, catalog Catalog, maxAttempts int) *Issuer {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Issuer{
		db:          db,
		catalog:     catalog,
		maxAttempts: maxAttempts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Issue draws a pair of displayable cards and stores it under a fresh token.
// Draws where either card has no image are retried up to the attempt limit.
func (i *Issuer) Issue(ctx context.Context) (models.IssuedMatchup, error) {
	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		pair, err := i.draw(ctx)
		if err != nil {
			if errors.Is(err, ErrNoCards) {
				metrics.MatchupsUnavailable.Inc()
			}
			return models.IssuedMatchup{}, err
		}

		card1, ok1, err := i.view(ctx, pair[0])
		if err != nil {
			return models.IssuedMatchup{}, err
		}
		card2, ok2, err := i.view(ctx, pair[1])
		if err != nil {
			return models.IssuedMatchup{}, err
		}
		if !ok1 || !ok2 {
			slog.Debug("redrawing matchup without image", "attempt", attempt)
			continue
		}

		return i.record(ctx, card1, card2)
	}

	metrics.MatchupsUnavailable.Inc()
	slog.Warn("no displayable matchup found", "attempts", i.maxAttempts)
	return models.IssuedMatchup{}, ErrNoCards
}

// draw samples cards and picks the pair to show
func (i *Issuer) draw(ctx context.Context) ([2]catalog.Card, error) {
	cards, err := i.catalog.Sample(ctx, sampleSize)
	if err != nil {
		return [2]catalog.Card{}, fmt.Errorf("failed to sample cards: %w", err)
	}
	if len(cards) < 2 {
		return [2]catalog.Card{}, ErrNoCards
	}
	return Pick(cards), nil
}

// Pick chooses two of the sampled cards. When exactly one of three is a
// basic land it is the one left out, which makes basic lands show up less
// often without excluding them.
func Pick(cards []catalog.Card) [2]catalog.Card {
	if len(cards) == sampleSize {
		land := -1
		for idx, c := range cards {
			if !c.IsBasicLand() {
				continue
			}
			if land >= 0 {
				land = -1
				break
			}
			land = idx
		}
		if land >= 0 {
			rest := make([]catalog.Card, 0, 2)
			for idx, c := range cards {
				if idx != land {
					rest = append(rest, c)
				}
			}
			return [2]catalog.Card{rest[0], rest[1]}
		}
	}
	return [2]catalog.Card{cards[0], cards[1]}
}

func (i *Issuer) view(ctx context.Context, c catalog.Card) (models.CardView, bool, error) {
	url, ok, err := i.catalog.ImageURL(ctx, c.UUID)
	if err != nil {
		return models.CardView{}, false, fmt.Errorf("failed to resolve image: %w", err)
	}
	return models.CardView{UUID: c.UUID, Name: c.Name, ImageURL: url}, ok, nil
}

func (i *Issuer) record(ctx context.Context, card1, card2 models.CardView) (models.IssuedMatchup, error) {
	token, err := auth.GenerateMatchupToken()
	if err != nil {
		return models.IssuedMatchup{}, err
	}

	var id int64
	err = i.db.QueryRowContext(ctx, `
		INSERT INTO matchup (token, card_1_uuid, card_2_uuid, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, token, card1.UUID, card2.UUID, i.now()).Scan(&id)
	if err != nil {
		return models.IssuedMatchup{}, fmt.Errorf("failed to create matchup: %w", err)
	}

	metrics.MatchupsIssued.Inc()
	slog.Debug("matchup issued", "matchup_id", id, "card_1", card1.Name, "card_2", card2.Name)

	return models.IssuedMatchup{Token: token, Card1: card1, Card2: card2}, nil
}
