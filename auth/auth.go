// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token format")

// GenerateMatchupToken creates a random single-use token for a matchup.
// Tokens are version 4 UUIDs (122 bits of entropy) in canonical form.
func GenerateMatchupToken() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate matchup token: %w", err)
	}
	return u.String(), nil
}

// ParseMatchupToken validates a client-supplied token and returns its
// canonical form, so lookups never depend on client casing or braces
func ParseMatchupToken(token string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return "", ErrInvalidToken
	}
	return u.String(), nil
}
