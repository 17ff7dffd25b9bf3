package ratings

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/card-matchup/catalog"
	"github.com/danielhkuo/card-matchup/models"
	"github.com/danielhkuo/card-matchup/testutil"
)

const (
	boltUUID  = "aaaaaaaa-1111-1111-1111-111111111111"
	lotusUUID = "bbbbbbbb-2222-2222-2222-222222222222"
	moxUUID   = "cccccccc-3333-3333-3333-333333333333"
	bolt2UUID = "dddddddd-4444-4444-4444-444444444444"
	scryfall  = "abcdef01-2345-6789-abcd-ef0123456789"
)

func setupCatalog(t *testing.T) *catalog.SQLCatalog {
	return testutil.SetupTestCatalog(t,
		testutil.PaperCard(boltUUID, "Lightning Bolt", scryfall),
		testutil.PaperCard(bolt2UUID, "Lightning Bolt", scryfall),
		testutil.PaperCard(lotusUUID, "Black Lotus", scryfall),
		testutil.PaperCard(moxUUID, "Mox Pearl", ""),
	)
}

// applyVote runs the incremental path for one vote in its own transaction
func applyVote(t *testing.T, conn *sql.DB, store *Store, v models.Vote) bool {
	t.Helper()

	tx, err := conn.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	applied, err := store.ApplyVote(context.Background(), tx, v)
	if err != nil {
		t.Fatalf("ApplyVote() error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return applied
}

func vote(card1, card2, chosen string) models.Vote {
	return models.Vote{Card1UUID: card1, Card2UUID: card2, ChosenUUID: chosen}
}

func TestApply(t *testing.T) {
	a, b := Apply(NewRating("A"), NewRating("B"), true)

	if a.Rating != 1516.0 || b.Rating != 1484.0 {
		t.Errorf("Expected (1516, 1484), got (%v, %v)", a.Rating, b.Rating)
	}
	if a.Wins != 1 || a.Losses != 0 {
		t.Errorf("Expected winner 1-0, got %d-%d", a.Wins, a.Losses)
	}
	if b.Wins != 0 || b.Losses != 1 {
		t.Errorf("Expected loser 0-1, got %d-%d", b.Wins, b.Losses)
	}

	a, b = Apply(a, b, false)
	if a.Losses != 1 || b.Wins != 1 {
		t.Errorf("Expected counters to accumulate, got A %d-%d, B %d-%d", a.Wins, a.Losses, b.Wins, b.Losses)
	}
}

func TestApply_SameName(t *testing.T) {
	tests := []struct {
		name       string
		aWon       bool
		wantRating float64
	}{
		{"first printing wins", true, 1484.0},
		{"second printing wins", false, 1516.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bolt := NewRating("Lightning Bolt")
			a, b := Apply(bolt, bolt, tt.aWon)

			if a != b {
				t.Fatalf("Expected one shared result, got %+v and %+v", a, b)
			}
			if a.Rating != tt.wantRating {
				t.Errorf("Expected rating %v, got %v", tt.wantRating, a.Rating)
			}
			if a.Wins != 1 || a.Losses != 1 {
				t.Errorf("Expected 1-1, got %d-%d", a.Wins, a.Losses)
			}
		})
	}
}

func TestReplay_SkipsUnresolvedVotes(t *testing.T) {
	names := map[string]string{
		boltUUID:  "Lightning Bolt",
		bolt2UUID: "Lightning Bolt",
		lotusUUID: "Black Lotus",
	}
	votes := []models.Vote{
		vote(boltUUID, lotusUUID, boltUUID),
		vote(boltUUID, "unknown", boltUUID),
		vote(boltUUID, bolt2UUID, bolt2UUID),
	}

	state, skipped := Replay(votes, names)
	if skipped != 1 {
		t.Errorf("Expected 1 skipped vote, got %d", skipped)
	}
	if len(state) != 2 {
		t.Fatalf("Expected 2 rated names, got %d", len(state))
	}
	bolt := state["Lightning Bolt"]
	if bolt.Wins != 2 || bolt.Losses != 1 {
		t.Errorf("Expected Lightning Bolt at 2-1, got %+v", bolt)
	}
}

func TestApplyVote_CreatesRatings(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	store := NewStore(conn, setupCatalog(t))
	ctx := context.Background()

	if !applyVote(t, conn, store, vote(boltUUID, lotusUUID, boltUUID)) {
		t.Fatal("Expected vote to be applied")
	}

	if n := testutil.CountRows(t, conn, "card_rating"); n != 2 {
		t.Fatalf("Expected 2 rating rows, got %d", n)
	}

	bolt, err := store.Get(ctx, "Lightning Bolt")
	if err != nil {
		t.Fatal(err)
	}
	lotus, err := store.Get(ctx, "Black Lotus")
	if err != nil {
		t.Fatal(err)
	}

	if bolt.Rating != 1516.0 || lotus.Rating != 1484.0 {
		t.Errorf("Expected (1516, 1484), got (%v, %v)", bolt.Rating, lotus.Rating)
	}
	if bolt.Wins != 1 || bolt.Losses != 0 || lotus.Wins != 0 || lotus.Losses != 1 {
		t.Errorf("Unexpected counters: bolt %+v, lotus %+v", bolt, lotus)
	}
}

func TestApplyVote_Accumulates(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	store := NewStore(conn, setupCatalog(t))

	applyVote(t, conn, store, vote(boltUUID, lotusUUID, boltUUID))
	applyVote(t, conn, store, vote(lotusUUID, boltUUID, boltUUID))

	bolt, err := store.Get(context.Background(), "Lightning Bolt")
	if err != nil {
		t.Fatal(err)
	}
	if bolt.Wins != 2 {
		t.Errorf("Expected 2 wins, got %d", bolt.Wins)
	}
	if bolt.Rating <= 1516 {
		t.Errorf("Expected more than one win's worth of rating, got %v", bolt.Rating)
	}
}

func TestApplyVote_PrintingsShareRating(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	store := NewStore(conn, setupCatalog(t))

	applyVote(t, conn, store, vote(boltUUID, lotusUUID, boltUUID))
	applyVote(t, conn, store, vote(bolt2UUID, lotusUUID, bolt2UUID))

	bolt, err := store.Get(context.Background(), "Lightning Bolt")
	if err != nil {
		t.Fatal(err)
	}
	if bolt.Wins != 2 {
		t.Errorf("Expected both printings to count toward one name, got %d wins", bolt.Wins)
	}
}

func TestApplyVote_SameName(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	store := NewStore(conn, setupCatalog(t))

	if !applyVote(t, conn, store, vote(boltUUID, bolt2UUID, boltUUID)) {
		t.Fatal("Expected vote between printings to be applied")
	}
	if n := testutil.CountRows(t, conn, "card_rating"); n != 1 {
		t.Fatalf("Expected 1 rating row, got %d", n)
	}

	bolt, err := store.Get(context.Background(), "Lightning Bolt")
	if err != nil {
		t.Fatal(err)
	}
	if bolt.Wins != 1 || bolt.Losses != 1 {
		t.Errorf("Expected 1-1, got %d-%d", bolt.Wins, bolt.Losses)
	}
	if bolt.Rating != 1484.0 {
		t.Errorf("Expected the second printing's rating 1484, got %v", bolt.Rating)
	}
}

func TestApplyVote_NoOps(t *testing.T) {
	tests := []struct {
		name string
		v    models.Vote
	}{
		{"unknown card", vote(boltUUID, "ffffffff-0000-0000-0000-000000000000", boltUUID)},
		{"both unknown", vote("x", "y", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := testutil.SetupTestDB(t)
			defer conn.Close()

			store := NewStore(conn, setupCatalog(t))
			if applyVote(t, conn, store, tt.v) {
				t.Error("Expected vote not to be applied")
			}
			if n := testutil.CountRows(t, conn, "card_rating"); n != 0 {
				t.Errorf("Expected no rating rows, got %d", n)
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	store := NewStore(conn, setupCatalog(t))
	_, err := store.Get(context.Background(), "Nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRebuild_MatchesIncremental(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	store := NewStore(conn, setupCatalog(t))
	ctx := context.Background()

	history := []models.Vote{
		vote(boltUUID, lotusUUID, boltUUID),
		vote(lotusUUID, boltUUID, lotusUUID),
		vote(boltUUID, lotusUUID, lotusUUID),
		vote(moxUUID, boltUUID, moxUUID),
		vote(moxUUID, lotusUUID, lotusUUID),
		vote(bolt2UUID, moxUUID, bolt2UUID),
		vote(boltUUID, "unknown-card", boltUUID),
		vote(boltUUID, bolt2UUID, boltUUID),
		vote(bolt2UUID, boltUUID, boltUUID),
		vote(lotusUUID, boltUUID, boltUUID),
	}

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, v := range history {
		testutil.InsertTestVote(t, conn, v.Card1UUID, v.Card2UUID, v.ChosenUUID, start.Add(time.Duration(i)*time.Minute))
		applyVote(t, conn, store, v)
	}

	live, err := store.All(ctx)
	if err != nil {
		t.Fatal(err)
	}

	result, err := store.Rebuild(ctx)
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	if result.Cleared != int64(len(live)) {
		t.Errorf("Expected %d cleared rows, got %d", len(live), result.Cleared)
	}
	if result.Replayed != 9 || result.Skipped != 1 {
		t.Errorf("Expected 9 replayed / 1 skipped, got %d / %d", result.Replayed, result.Skipped)
	}
	if result.Rated != 3 {
		t.Errorf("Expected 3 rated names, got %d", result.Rated)
	}

	rebuilt, err := store.All(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if len(rebuilt) != len(live) {
		t.Fatalf("Expected %d ratings after rebuild, got %d", len(live), len(rebuilt))
	}
	for i := range live {
		// Exact comparison: both paths must produce identical floats
		if live[i] != rebuilt[i] {
			t.Errorf("Rating mismatch for %s: live %+v, rebuilt %+v", live[i].Name, live[i], rebuilt[i])
		}
	}
}

func TestRebuild_ReplayOrder(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	store := NewStore(conn, setupCatalog(t))
	ctx := context.Background()

	same := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	later := same.Add(time.Hour)

	// Inserted out of chronological order: the later vote gets the lower id
	testutil.InsertTestVote(t, conn, boltUUID, lotusUUID, lotusUUID, later)
	testutil.InsertTestVote(t, conn, boltUUID, lotusUUID, boltUUID, same)
	testutil.InsertTestVote(t, conn, boltUUID, lotusUUID, lotusUUID, same)

	if _, err := store.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	names := map[string]string{boltUUID: "Lightning Bolt", lotusUUID: "Black Lotus"}
	chronological := []models.Vote{
		vote(boltUUID, lotusUUID, boltUUID),
		vote(boltUUID, lotusUUID, lotusUUID),
		vote(boltUUID, lotusUUID, lotusUUID),
	}
	want, _ := Replay(chronological, names)

	bolt, err := store.Get(ctx, "Lightning Bolt")
	if err != nil {
		t.Fatal(err)
	}
	if bolt != want["Lightning Bolt"] {
		t.Errorf("Expected replay in (created_at, id) order: want %+v, got %+v", want["Lightning Bolt"], bolt)
	}

	insertion := []models.Vote{chronological[2], chronological[0], chronological[1]}
	wrong, _ := Replay(insertion, names)
	if wrong["Lightning Bolt"].Rating == bolt.Rating {
		t.Error("Test is not order-sensitive; choose a different history")
	}
}

func TestRebuild_Empty(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	store := NewStore(conn, setupCatalog(t))
	applyVote(t, conn, store, vote(boltUUID, lotusUUID, boltUUID))

	// No vote rows exist, so the rebuild discards the incremental state
	result, err := store.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if result.Cleared != 2 || result.Rated != 0 {
		t.Errorf("Expected 2 cleared and 0 rated, got %+v", result)
	}
	if n := testutil.CountRows(t, conn, "card_rating"); n != 0 {
		t.Errorf("Expected empty ratings, got %d rows", n)
	}
}
