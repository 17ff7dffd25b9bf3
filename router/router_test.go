// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/card-matchup/ledger"
	"github.com/danielhkuo/card-matchup/matchup"
	"github.com/danielhkuo/card-matchup/models"
	"github.com/danielhkuo/card-matchup/ratings"
	"github.com/danielhkuo/card-matchup/testutil"
)

func setupRouter(t *testing.T) (http.Handler, *sql.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { db.Close() })

	cat := testutil.SetupTestCatalog(t,
		testutil.PaperCard(testutil.CardUUID(1), "Lightning Bolt", "abcdef01-2345-6789-abcd-ef0123456789"),
		testutil.PaperCard(testutil.CardUUID(2), "Black Lotus", "12345678-2345-6789-abcd-ef0123456789"),
	)
	store := ratings.NewStore(db, cat)
	cfg := testutil.GetTestConfig()

	return NewRouter(Deps{
		Issuer:  matchup.NewIssuer(db, cat, cfg.MaxAttempts),
		Ledger:  ledger.New(db, cat, store),
		Ratings: store,
	}), db
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "card-matchup API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := setupRouter(t)

	// 400 and 503 are valid handler responses here; only 404 and 405 mean
	// the route is missing
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/metrics"},
		{"GET", "/matchup"},
		{"POST", "/votes"},
		{"GET", "/leaderboard"},
		{"GET", "/tally"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed || w.Code == http.StatusNotFound {
				t.Errorf("Route %s %s returned %d, expected route handler to exist", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := setupRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"POST", "/matchup"},
		{"GET", "/votes"},
		{"DELETE", "/leaderboard"},
		{"PUT", "/tally"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	mux, _ := setupRouter(t)

	req := httptest.NewRequest("OPTIONS", "/votes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected preflight 200, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("Expected origin to be reflected")
	}
}

func TestMatchupThenVote(t *testing.T) {
	mux, db := setupRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/matchup", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var issued models.IssuedMatchup
	testutil.AssertJSON(t, w, &issued)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/votes", models.SubmitVoteRequest{
		MatchupToken: issued.Token,
		ChosenUUID:   issued.Card2.UUID,
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	if n := testutil.CountRows(t, db, "vote"); n != 1 {
		t.Errorf("Expected 1 vote, got %d", n)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	// Generate a labelled request first
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "card_matchup_http_requests_total") {
		t.Error("Expected HTTP request counter in metrics output")
	}
	if !strings.Contains(body, `route="GET /health"`) {
		t.Error("Expected requests to be labelled with the route pattern")
	}
}
