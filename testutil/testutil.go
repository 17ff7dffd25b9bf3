// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/card-matchup/auth"
	"github.com/danielhkuo/card-matchup/catalog"
	"github.com/danielhkuo/card-matchup/cliparse"
	"github.com/danielhkuo/card-matchup/db"
	"github.com/danielhkuo/card-matchup/models"
)

// SetupTestDB creates a fresh in-memory matchup database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             cliparse.DefaultPort,
		DatabaseURL:      ":memory:",
		DatabaseType:     db.TypeSQLite,
		CatalogPath:      ":memory:",
		MaxAttempts:      cliparse.DefaultMaxAttempts,
		SweepMaxAgeHours: cliparse.DefaultSweepMaxAgeHours,
		Command:          "serve",
	}
}

// TestCard is one row of the fake MTGJSON catalog
type TestCard struct {
	UUID         string
	Name         string
	TypeLine     string
	Language     string
	Availability string
	Side         string
	Funny        bool
	OnlineOnly   bool
	Oversized    bool
	ScryfallID   string
}

// PaperCard returns an eligible English paper printing. An empty scryfallID
// leaves the card without an image.
func PaperCard(uuid, name, scryfallID string) TestCard {
	return TestCard{
		UUID:         uuid,
		Name:         name,
		TypeLine:     "Instant",
		Language:     "English",
		Availability: "mtgo, paper",
		ScryfallID:   scryfallID,
	}
}

// CardUUID returns a deterministic, well-formed card id for index i
func CardUUID(i int) string {
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", i, i)
}

const catalogSchema = `
	CREATE TABLE cards (
		"uuid" TEXT PRIMARY KEY,
		"name" TEXT,
		"setCode" TEXT,
		"type" TEXT,
		"isFunny" INTEGER,
		"isOnlineOnly" INTEGER,
		"isOversized" INTEGER,
		"availability" TEXT,
		"side" TEXT,
		"language" TEXT
	);

	CREATE TABLE cardIdentifiers (
		"uuid" TEXT PRIMARY KEY,
		"scryfallId" TEXT
	);
`

// SetupTestCatalogDB creates an in-memory MTGJSON-shaped database holding
// the given cards. It is closed when the test ends.
func SetupTestCatalogDB(t *testing.T, cards ...TestCard) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test catalog: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec(catalogSchema); err != nil {
		t.Fatalf("Failed to create catalog schema: %v", err)
	}

	for _, c := range cards {
		AddTestCard(t, conn, c)
	}

	return conn
}

// SetupTestCatalog is SetupTestCatalogDB wrapped in a catalog with the
// default language allow-list
func SetupTestCatalog(t *testing.T, cards ...TestCard) *catalog.SQLCatalog {
	t.Helper()
	return catalog.New(SetupTestCatalogDB(t, cards...), nil)
}

// AddTestCard inserts a card into a catalog database
func AddTestCard(t *testing.T, conn *sql.DB, c TestCard) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO cards ("uuid", "name", "setCode", "type", "isFunny", "isOnlineOnly",
		                   "isOversized", "availability", "side", "language")
		VALUES (?, ?, 'TST', ?, ?, ?, ?, ?, ?, ?)
	`, c.UUID, c.Name, c.TypeLine, flag(c.Funny), flag(c.OnlineOnly), flag(c.Oversized),
		c.Availability, nullString(c.Side), c.Language)
	if err != nil {
		t.Fatalf("Failed to create test card: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO cardIdentifiers ("uuid", "scryfallId") VALUES (?, ?)
	`, c.UUID, nullString(c.ScryfallID))
	if err != nil {
		t.Fatalf("Failed to create test card identifiers: %v", err)
	}
}

// MTGJSON stores false flags as NULL
func flag(b bool) any {
	if b {
		return 1
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateTestMatchup inserts an unvoted matchup created now and returns it
func CreateTestMatchup(t *testing.T, conn *sql.DB, card1, card2 string) models.Matchup {
	t.Helper()
	return CreateTestMatchupAt(t, conn, card1, card2, time.Now().UTC(), nil)
}

// CreateTestMatchupAt inserts a matchup with explicit timestamps
func CreateTestMatchupAt(t *testing.T, conn *sql.DB, card1, card2 string, createdAt time.Time, votedAt *time.Time) models.Matchup {
	t.Helper()

	token, err := auth.GenerateMatchupToken()
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	m := models.Matchup{
		Token:     token,
		Card1UUID: card1,
		Card2UUID: card2,
		VotedAt:   votedAt,
		CreatedAt: createdAt.UTC(),
	}
	if votedAt != nil {
		v := votedAt.UTC()
		m.VotedAt = &v
	}

	err = conn.QueryRow(`
		INSERT INTO matchup (token, card_1_uuid, card_2_uuid, voted_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, m.Token, m.Card1UUID, m.Card2UUID, m.VotedAt, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		t.Fatalf("Failed to create test matchup: %v", err)
	}

	return m
}

// InsertTestVote appends a vote row directly, bypassing the ledger
func InsertTestVote(t *testing.T, conn *sql.DB, card1, card2, chosen string, createdAt time.Time) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO vote (card_1_uuid, card_2_uuid, chosen_uuid, ip_address, created_at)
		VALUES ($1, $2, $3, '127.0.0.1', $4)
		RETURNING id
	`, card1, card2, chosen, createdAt.UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return id
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates an HTTP test request with a urlencoded form body
func MakeFormRequest(method, path string, form url.Values, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
