// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog reads the external card catalog.

The catalog is the MTGJSON AllPrintings SQLite dump. It is owned elsewhere
and only ever read: Open uses a read-only connection.

# Gateway

The core depends on the Gateway interface:

  - Sample: random eligible printings (paper, not funny/online-only/
    oversized, primary face, allowed language)
  - ImageURL: Scryfall image for a printing, ok=false if it has none
  - Names: batched uuid → name lookup
  - ImagesByName: batched name → image lookup for leaderboards

# Basic Lands

Card.IsBasicLand inspects the type line ("Basic Land — Forest"). The
matchup issuer uses it to make basic lands rarer without excluding them.

# Images

Image URLs point at the Scryfall CDN and are derived from the Scryfall id:

	https://cards.scryfall.io/normal/front/a/b/ab12....jpg
*/
package catalog
