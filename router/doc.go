// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the card matchup API.

# Route Registration

NewRouter returns an http.Handler with all endpoints, wrapped in request
metrics and CORS:

	handler := router.NewRouter(router.Deps{
		Issuer:  issuer,
		Ledger:  ledger,
		Ratings: store,
	})

# Endpoints

Health and metrics:

	GET /health  - Liveness probe
	GET /metrics - Prometheus metrics

Voting (public):

	GET  /matchup - Issue a new card pair and token
	POST /votes   - Spend a token on one of its cards

Rankings (public):

	GET /leaderboard?limit=N - Elo ratings, highest first
	GET /tally?n=N           - Raw win rates
*/
package router
