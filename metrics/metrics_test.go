package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsByPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := Middleware(mux)

	counter := httpRequests.WithLabelValues("GET", "GET /things/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		req := httptest.NewRequest("GET", "/things/"+id, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusTeapot {
			t.Errorf("Expected status 418, got %d", w.Code)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("Expected 3 requests under one route label, got %v", got)
	}
}

func TestMiddleware_Unmatched(t *testing.T) {
	handler := Middleware(http.NotFoundHandler())

	counter := httpRequests.WithLabelValues("GET", "unmatched", "404")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest("GET", "/nowhere", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("Expected unmatched request to be counted, got %v", got)
	}
}

func TestHandler_ExposesDomainMetrics(t *testing.T) {
	MatchupsIssued.Inc()
	VotesRejected.WithLabelValues(ReasonInvalidToken).Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, name := range []string{
		"card_matchup_matchups_issued_total",
		`card_matchup_votes_rejected_total{reason="invalid_token"}`,
	} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected metrics output to contain %s", name)
		}
	}
}
