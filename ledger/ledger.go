// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/card-matchup/auth"
	"github.com/danielhkuo/card-matchup/metrics"
	"github.com/danielhkuo/card-matchup/models"
)

// Rejection reasons. Their messages are returned to clients verbatim.
// An unknown token and a used token share ErrUnavailable on purpose.
var (
	ErrMissingFields = errors.New("missing fields")
	ErrInvalidToken  = errors.New("invalid token")
	ErrUnavailable   = errors.New("invalid or already used")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrUnknownCard   = errors.New("card not found")
)

// IsRejection reports whether err is a client-facing vote rejection
func IsRejection(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrInvalidChoice) ||
		errors.Is(err, ErrUnknownCard)
}

// NameResolver maps card ids to display names
type NameResolver interface {
	Names(ctx context.Context, uuids []string) (map[string]string, error)
}

// RatingUpdater applies an accepted vote to the ratings inside the vote
// transaction
type RatingUpdater interface {
	ApplyVote(ctx context.Context, tx *sql.Tx, v models.Vote) (bool, error)
}

// Submission is one vote attempt as received from a client
type Submission struct {
	Token    string
	ChosenID string
	Address  string
}

// Ledger accepts votes against issued matchups and keeps the vote history
type Ledger struct {
	db      *sql.DB
	names   NameResolver
	ratings RatingUpdater

	// VerifyCatalog rejects votes whose cards no longer resolve in the
	// catalog
	VerifyCatalog bool

	now func() time.Time

	// beforeMark runs inside the vote transaction just before the matchup
	// is marked voted
	beforeMark func(ctx context.Context, tx *sql.Tx, m models.Matchup) error
}

// New creates a ledger. ratings may be nil, in which case accepted votes
// only reach the ratings through a rebuild.
func New(db *sql.DB, names NameResolver, ratings RatingUpdater) *Ledger {
	return &Ledger{
		db:      db,
		names:   names,
		ratings: ratings,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates s against its matchup and records the vote. Checks run in
// order and the first failure is returned:
//
//  1. token and choice present (ErrMissingFields)
//  2. token is a UUID (ErrInvalidToken)
//  3. an unvoted matchup has this token (ErrUnavailable)
//  4. choice is one of the matchup's cards (ErrInvalidChoice)
//  5. with VerifyCatalog, both cards still exist (ErrUnknownCard)
//
// Marking the matchup voted, writing the vote and updating ratings commit
// together. Of two concurrent submissions for one token exactly one wins.
func (l *Ledger) Submit(ctx context.Context, s Submission) (models.Vote, error) {
	vote, err := l.submit(ctx, s)
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			metrics.VotesRejected.WithLabelValues(reason).Inc()
		}
		return models.Vote{}, err
	}

	metrics.VotesAccepted.Inc()
	slog.Info("vote accepted", "vote_id", vote.ID, "chosen", vote.ChosenUUID)
	return vote, nil
}

func (l *Ledger) submit(ctx context.Context, s Submission) (models.Vote, error) {
	if s.Token == "" || s.ChosenID == "" {
		return models.Vote{}, ErrMissingFields
	}

	token, err := auth.ParseMatchupToken(s.Token)
	if err != nil {
		return models.Vote{}, ErrInvalidToken
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var m models.Matchup
	err = tx.QueryRowContext(ctx, `
		SELECT id, token, card_1_uuid, card_2_uuid, created_at
		FROM matchup
		WHERE token = $1 AND voted_at IS NULL
	`, token).Scan(&m.ID, &m.Token, &m.Card1UUID, &m.Card2UUID, &m.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Vote{}, ErrUnavailable
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to query matchup: %w", err)
	}

	if s.ChosenID != m.Card1UUID && s.ChosenID != m.Card2UUID {
		return models.Vote{}, ErrInvalidChoice
	}

	if l.VerifyCatalog {
		names, err := l.names.Names(ctx, []string{m.Card1UUID, m.Card2UUID})
		if err != nil {
			return models.Vote{}, err
		}
		if names[m.Card1UUID] == "" || names[m.Card2UUID] == "" {
			return models.Vote{}, ErrUnknownCard
		}
	}

	if l.beforeMark != nil {
		if err := l.beforeMark(ctx, tx, m); err != nil {
			return models.Vote{}, err
		}
	}

	now := l.now()

	// Conditional on voted_at still being NULL: a concurrent submission that
	// committed first leaves nothing to update
	res, err := tx.ExecContext(ctx, `
		UPDATE matchup SET voted_at = $1 WHERE id = $2 AND voted_at IS NULL
	`, now, m.ID)
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to mark matchup voted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to mark matchup voted: %w", err)
	}
	if n == 0 {
		return models.Vote{}, ErrUnavailable
	}

	vote := models.Vote{
		Card1UUID:  m.Card1UUID,
		Card2UUID:  m.Card2UUID,
		ChosenUUID: s.ChosenID,
		IPAddress:  s.Address,
		CreatedAt:  now,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO vote (card_1_uuid, card_2_uuid, chosen_uuid, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, vote.Card1UUID, vote.Card2UUID, vote.ChosenUUID, vote.IPAddress, vote.CreatedAt).Scan(&vote.ID)
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}

	if l.ratings != nil {
		if _, err := l.ratings.ApplyVote(ctx, tx, vote); err != nil {
			return models.Vote{}, fmt.Errorf("failed to update ratings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Vote{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	return vote, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return metrics.ReasonMissingFields
	case errors.Is(err, ErrInvalidToken):
		return metrics.ReasonInvalidToken
	case errors.Is(err, ErrUnavailable):
		return metrics.ReasonUnavailable
	case errors.Is(err, ErrInvalidChoice):
		return metrics.ReasonInvalidChoice
	case errors.Is(err, ErrUnknownCard):
		return metrics.ReasonUnknownCard
	}
	return ""
}

// Count returns the number of votes in the ledger
func (l *Ledger) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vote`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}

// Votes returns the full history in replay order, (created_at, id)
func (l *Ledger) Votes(ctx context.Context) ([]models.Vote, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, card_1_uuid, card_2_uuid, chosen_uuid, ip_address, created_at
		FROM vote
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.Card1UUID, &v.Card2UUID, &v.ChosenUUID, &v.IPAddress, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}

	return votes, nil
}
