// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the card matchup API.

# Handler Types

Handlers depend on small interfaces rather than concrete components:

  - MatchupHandler: issuing matchups and accepting votes
  - RankingHandler: Elo leaderboard and raw win-rate tally

	matchupHandler := handlers.NewMatchupHandler(issuer, ledger)
	rankingHandler := handlers.NewRankingHandler(store, ledger)

# Voting Flow

	GET  /matchup → GetMatchup (returns token, card_1, card_2)
	POST /votes   → SubmitVote (matchup_token, chosen_uuid)

A vote body is JSON or an HTML form. JSON votes get 201 with the vote id,
form votes are redirected to /matchup for the next pair. Rejected votes get
400 with the reason as the message. When the catalog cannot produce a pair
GetMatchup answers 503.

# Rankings

	GET /leaderboard?limit=100 → GetLeaderboard (max 1000)
	GET /tally?n=500           → GetTally
*/
package handlers
