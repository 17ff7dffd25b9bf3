// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/card-matchup/handlers"
	"github.com/danielhkuo/card-matchup/metrics"
	"github.com/danielhkuo/card-matchup/middleware"
)

// Ledger accepts votes and tallies them
type Ledger interface {
	handlers.Submitter
	handlers.Tallier
}

// Deps are the components the routes are served from
type Deps struct {
	Issuer  handlers.Issuer
	Ledger  Ledger
	Ratings handlers.Leaderboarder
}

// NewRouter returns the full route table wrapped in metrics and CORS
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	matchupHandler := handlers.NewMatchupHandler(deps.Issuer, deps.Ledger)
	rankingHandler := handlers.NewRankingHandler(deps.Ratings, deps.Ledger)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics
	mux.Handle("GET /metrics", metrics.Handler())

	// Matchups and votes (public)
	mux.HandleFunc("GET /matchup", middleware.WithLogging(matchupHandler.GetMatchup))
	mux.HandleFunc("POST /votes", middleware.WithLogging(matchupHandler.SubmitVote))

	// Rankings (public)
	mux.HandleFunc("GET /leaderboard", middleware.WithLogging(rankingHandler.GetLeaderboard))
	mux.HandleFunc("GET /tally", middleware.WithLogging(rankingHandler.GetTally))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("card-matchup API v1"))
	})

	return metrics.Middleware(middleware.CORS(mux))
}
