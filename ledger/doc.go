// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger accepts votes and keeps the append-only vote history.

A vote spends a matchup token. Submit checks the submission, then in a single
transaction marks the matchup voted, appends the vote and hands it to the
rating store. The mark is a conditional update on voted_at, so when two
requests race on one token the loser sees zero affected rows and is rejected
with ErrUnavailable.

Rejections are sentinel errors whose messages are shown to clients:

	ErrMissingFields  "missing fields"
	ErrInvalidToken   "invalid token"
	ErrUnavailable    "invalid or already used"
	ErrInvalidChoice  "invalid choice"
	ErrUnknownCard    "card not found" (only with VerifyCatalog)

Tally reports raw win rates per card name over the whole history.
*/
package ledger
