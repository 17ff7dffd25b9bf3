// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitVoteRequest: matchup_token, chosen_uuid

# Response Types

Types for JSON responses:

  - IssuedMatchup: token, card_1, card_2
  - SubmitVoteResponse: vote_id, message
  - Leaderboard: entries, total_votes
  - TallyReport: entries, vote_count
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Matchup: tokenized pairing awaiting a vote
  - Vote: immutable record of a choice between two cards
  - Rating: per-name rating with win/loss counters
  - CardView: card id, display name and image URL
*/
package models
