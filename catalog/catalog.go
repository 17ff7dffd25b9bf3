// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultLanguages is the language allow-list used when none is configured.
// Values match the MTGJSON cards.language column.
var DefaultLanguages = []string{
	"English",
	"French",
	"German",
	"Italian",
	"Japanese",
	"Korean",
	"Portuguese (Brazil)",
	"Russian",
	"Spanish",
	"Chinese Simplified",
	"Chinese Traditional",
}

// batchSize bounds the number of bound parameters per IN query
const batchSize = 500

const imageURLFormat = "https://cards.scryfall.io/normal/front/%c/%c/%s.jpg"

// Card is one printing from the catalog
type Card struct {
	UUID     string
	Name     string
	TypeLine string
}

// IsBasicLand reports whether the card is a basic land printing
func (c Card) IsBasicLand() bool {
	return strings.HasPrefix(c.TypeLine, "Basic") && strings.Contains(c.TypeLine, "Land")
}

// Gateway is the read-only view of the card catalog used by the core
type Gateway interface {
	Sample(ctx context.Context, n int) ([]Card, error)
	ImageURL(ctx context.Context, uuid string) (string, bool, error)
	Names(ctx context.Context, uuids []string) (map[string]string, error)
	ImagesByName(ctx context.Context, names []string) (map[string]string, error)
}

// SQLCatalog reads the MTGJSON SQLite dump (tables cards and cardIdentifiers)
type SQLCatalog struct {
	db        *sql.DB
	languages []string
}

// Open opens the MTGJSON database at path read-only
func Open(path string, languages []string) (*SQLCatalog, error) {
	if path == "" {
		return nil, errors.New("catalog path required")
	}

	conn, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping catalog: %w", err)
	}

	return New(conn, languages), nil
}

// New wraps an existing connection to an MTGJSON database
func New(db *sql.DB, languages []string) *SQLCatalog {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &SQLCatalog{db: db, languages: languages}
}

// Close closes the underlying connection
func (c *SQLCatalog) Close() error {
	return c.db.Close()
}

// Sample returns up to n distinct eligible cards chosen uniformly at random.
// Eligible cards are real paper printings: not funny, online-only or
// oversized, primary face only, in an allowed language.
func (c *SQLCatalog) Sample(ctx context.Context, n int) ([]Card, error) {
	if n <= 0 {
		return nil, nil
	}

	args := make([]any, 0, len(c.languages)+1)
	for _, lang := range c.languages {
		args = append(args, lang)
	}
	args = append(args, n)

	rows, err := c.db.QueryContext(ctx, `
		SELECT c."uuid", c."name", COALESCE(c."type", '')
		FROM cards c
		WHERE COALESCE(c."isFunny", 0) = 0
		  AND COALESCE(c."isOnlineOnly", 0) = 0
		  AND COALESCE(c."isOversized", 0) = 0
		  AND (c."side" IS NULL OR c."side" = 'a')
		  AND c."availability" LIKE '%paper%'
		  AND c."language" IN (`+placeholders(len(c.languages))+`)
		ORDER BY RANDOM()
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sample cards: %w", err)
	}
	defer rows.Close()

	cards := make([]Card, 0, n)
	for rows.Next() {
		var card Card
		if err := rows.Scan(&card.UUID, &card.Name, &card.TypeLine); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to sample cards: %w", err)
	}

	return cards, nil
}

// ImageURL resolves a card to its Scryfall image. ok is false when the card
// has no Scryfall id, which makes it ineligible for display.
func (c *SQLCatalog) ImageURL(ctx context.Context, uuid string) (string, bool, error) {
	var scryfallID string
	err := c.db.QueryRowContext(ctx, `
		SELECT "scryfallId"
		FROM cardIdentifiers
		WHERE "uuid" = ? AND "scryfallId" IS NOT NULL AND "scryfallId" <> ''
	`, uuid).Scan(&scryfallID)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query card identifiers: %w", err)
	}

	url, ok := ScryfallImageURL(scryfallID)
	return url, ok, nil
}

// Names resolves card ids to display names. Unknown ids are absent from the
// result.
func (c *SQLCatalog) Names(ctx context.Context, uuids []string) (map[string]string, error) {
	names := make(map[string]string, len(uuids))

	err := inBatches(dedupe(uuids), func(batch []string) error {
		rows, err := c.db.QueryContext(ctx, `
			SELECT "uuid", "name" FROM cards WHERE "uuid" IN (`+placeholders(len(batch))+`)
		`, toArgs(batch)...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id, name string
			if err := rows.Scan(&id, &name); err != nil {
				return err
			}
			names[id] = name
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve card names: %w", err)
	}

	return names, nil
}

// ImagesByName returns one image URL per card name, taken from any printing
// with a Scryfall id. Names without an imaged printing are absent.
func (c *SQLCatalog) ImagesByName(ctx context.Context, names []string) (map[string]string, error) {
	images := make(map[string]string, len(names))

	err := inBatches(dedupe(names), func(batch []string) error {
		rows, err := c.db.QueryContext(ctx, `
			SELECT c."name", ci."scryfallId"
			FROM cards c
			JOIN cardIdentifiers ci ON ci."uuid" = c."uuid"
			WHERE c."name" IN (`+placeholders(len(batch))+`)
			  AND ci."scryfallId" IS NOT NULL AND ci."scryfallId" <> ''
			ORDER BY c."name", c."uuid"
		`, toArgs(batch)...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var name, scryfallID string
			if err := rows.Scan(&name, &scryfallID); err != nil {
				return err
			}
			if _, seen := images[name]; seen {
				continue
			}
			if url, ok := ScryfallImageURL(scryfallID); ok {
				images[name] = url
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve card images: %w", err)
	}

	return images, nil
}

// ScryfallImageURL builds the CDN URL for a Scryfall id
func ScryfallImageURL(scryfallID string) (string, bool) {
	if len(scryfallID) < 2 {
		return "", false
	}
	return fmt.Sprintf(imageURLFormat, scryfallID[0], scryfallID[1], scryfallID), true
}

func placeholders(n int) string {
	if n <= 0 {
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func inBatches(values []string, fn func([]string) error) error {
	for start := 0; start < len(values); start += batchSize {
		end := min(start+batchSize, len(values))
		if err := fn(values[start:end]); err != nil {
			return err
		}
	}
	return nil
}
