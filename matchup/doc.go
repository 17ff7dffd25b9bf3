// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package matchup issues card pairs for voting.

Each draw samples three eligible cards from the catalog. If exactly one of
them is a basic land it is dropped, otherwise the first two are used. Both
cards must have an image; draws that fail this are retried a bounded number
of times before Issue gives up with ErrNoCards.

An issued pair is stored as an unvoted matchup row keyed by a random UUID
token. The token is what a client later submits to the ledger.
*/
package matchup
