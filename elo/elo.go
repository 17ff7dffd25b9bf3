// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package elo

import "math"

const (
	// KFactor controls how far a single comparison moves a rating
	KFactor = 32.0

	// DefaultRating is assigned to a card name on its first vote
	DefaultRating = 1500.0
)

// ExpectedScore returns the probability that a player rated ratingA beats
// a player rated ratingB
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

// UpdateRatings computes the post-match ratings for A and B.
// The sum of the two ratings is preserved.
func UpdateRatings(ratingA, ratingB float64, aWon bool) (float64, float64) {
	ea := ExpectedScore(ratingA, ratingB)
	eb := 1.0 - ea

	scoreA := 0.0
	if aWon {
		scoreA = 1.0
	}
	scoreB := 1.0 - scoreA

	newA := ratingA + KFactor*(scoreA-ea)
	newB := ratingB + KFactor*(scoreB-eb)
	return newA, newB
}
