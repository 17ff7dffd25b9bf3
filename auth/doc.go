// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides matchup token generation and validation.

# Matchup Tokens

Every issued matchup carries a random UUID token:

	token, err := auth.GenerateMatchupToken()

The token authorizes exactly one vote. It is unguessable, not derived from
the cards, and stored in the matchup table.

# Validation

Tokens arriving with a vote are parsed before any database access:

	canonical, err := auth.ParseMatchupToken(raw)
	if errors.Is(err, auth.ErrInvalidToken) {
		// reject with 400
	}

ParseMatchupToken accepts any UUID spelling the uuid package understands
(upper case, braces, urn prefix) and returns the lower-case canonical form.
*/
package auth
