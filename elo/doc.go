// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package elo implements the pairwise rating formula used for card rankings.

# Expected Score

ExpectedScore is the logistic curve of the rating gap, base 10, scale 400:

	e := elo.ExpectedScore(1700, 1500) // ≈ 0.76

ExpectedScore(a, b) + ExpectedScore(b, a) is 1.

# Updates

UpdateRatings applies one binary outcome with K = 32:

	newA, newB := elo.UpdateRatings(1500, 1500, true) // 1516, 1484

Ratings are zero-sum: newA + newB equals a + b. Upsets move ratings more
than expected results.
*/
package elo
