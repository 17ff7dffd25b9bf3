// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/card-matchup/ledger"
	"github.com/danielhkuo/card-matchup/middleware"
	"github.com/danielhkuo/card-matchup/models"
)

const (
	DefaultLeaderboardLimit = 100
	MaxLeaderboardLimit     = 1000
)

// Leaderboarder lists the highest rated card names
type Leaderboarder interface {
	Leaderboard(ctx context.Context, limit int) (models.Leaderboard, error)
}

// Tallier ranks card names by raw win rate
type Tallier interface {
	Tally(ctx context.Context, limit int) (models.TallyReport, error)
}

type RankingHandler struct {
	ratings Leaderboarder
	ledger  Tallier
}

func NewRankingHandler(ratings Leaderboarder, ledger Tallier) *RankingHandler {
	return &RankingHandler{ratings: ratings, ledger: ledger}
}

// GetLeaderboard handles GET /leaderboard
func (h *RankingHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, "limit", DefaultLeaderboardLimit)
	if !ok {
		return
	}
	limit = min(limit, MaxLeaderboardLimit)

	board, err := h.ratings.Leaderboard(r.Context(), limit)
	if err != nil {
		slog.Error("failed to build leaderboard", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, board)
}

// GetTally handles GET /tally
func (h *RankingHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	n, ok := queryLimit(w, r, "n", ledger.DefaultTallyLimit)
	if !ok {
		return
	}

	report, err := h.ledger.Tally(r.Context(), n)
	if err != nil {
		slog.Error("failed to tally votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to tally votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}

// queryLimit reads a positive integer query parameter. It writes a 400 and
// returns false when the value is present but unusable.
func queryLimit(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, key+" must be a positive integer")
		return 0, false
	}
	return n, true
}
