// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"sort"

	"github.com/danielhkuo/card-matchup/models"
)

// DefaultTallyLimit is the number of names a tally shows when none is given
const DefaultTallyLimit = 500

// Tally ranks card names by raw win rate across the whole vote history.
// Printings of one name are counted together. Votes where either card no
// longer resolves are left out. At most limit entries are returned; a
// non-positive limit returns every name.
func (l *Ledger) Tally(ctx context.Context, limit int) (models.TallyReport, error) {
	votes, err := l.Votes(ctx)
	if err != nil {
		return models.TallyReport{}, err
	}

	report := models.TallyReport{
		Entries:   []models.TallyEntry{},
		VoteCount: len(votes),
	}
	if len(votes) == 0 {
		return report, nil
	}

	ids := make([]string, 0, len(votes)*2)
	for _, v := range votes {
		ids = append(ids, v.Card1UUID, v.Card2UUID)
	}
	names, err := l.names.Names(ctx, ids)
	if err != nil {
		return models.TallyReport{}, err
	}

	counts := make(map[string]*models.TallyEntry)
	entry := func(name string) *models.TallyEntry {
		e, ok := counts[name]
		if !ok {
			e = &models.TallyEntry{Name: name}
			counts[name] = e
		}
		return e
	}

	for _, v := range votes {
		name1, name2 := names[v.Card1UUID], names[v.Card2UUID]
		if name1 == "" || name2 == "" {
			continue
		}
		entry(name1).Appearances++
		entry(name2).Appearances++
		if winner := names[v.ChosenUUID]; winner != "" {
			entry(winner).Wins++
		}
	}

	entries := make([]models.TallyEntry, 0, len(counts))
	for _, e := range counts {
		e.WinRate = float64(e.Wins) / float64(e.Appearances)
		entries = append(entries, *e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Name < b.Name
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	report.Entries = entries
	return report, nil
}
