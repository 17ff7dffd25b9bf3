// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus metrics for the matchup service.

Domain counters are package-level and registered with the default registry:

  - card_matchup_matchups_issued_total
  - card_matchup_matchups_unavailable_total
  - card_matchup_votes_accepted_total
  - card_matchup_votes_rejected_total{reason}
  - card_matchup_matchups_swept_total
  - card_matchup_rating_rebuilds_total

HTTP traffic is measured by Middleware, labelled by method, ServeMux
pattern and status. Handler serves everything at /metrics.
*/
package metrics
