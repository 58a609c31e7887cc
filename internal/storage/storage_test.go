package storage

import (
	"testing"

	"github.com/courtside/go-spa-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGameInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	summary := model.GameSummary{
		GameID:    "0021900001",
		RatedAt:   "2026-08-26T12:00:00Z",
		Events:    450,
		Sequences: 380,
		Dropped:   2,
		Skipped:   1,
		Fallbacks: 3,
		FinalProb: 1.0,
	}

	if err := db.InsertGame(summary); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}

	exists, err := db.GameExists("0021900001")
	if err != nil {
		t.Fatalf("GameExists: %v", err)
	}
	if !exists {
		t.Error("expected game to exist after insert")
	}

	exists2, _ := db.GameExists("0029999999")
	if exists2 {
		t.Error("expected unknown game to not exist")
	}
}

func TestListGames(t *testing.T) {
	db := openMemDB(t)

	summaries := []model.GameSummary{
		{GameID: "g1", RatedAt: "2026-01-01T00:00:00Z", Events: 400, Sequences: 350, FinalProb: 1},
		{GameID: "g2", RatedAt: "2026-02-01T00:00:00Z", Events: 420, Sequences: 360, FinalProb: 0},
	}
	for _, s := range summaries {
		if err := db.InsertGame(s); err != nil {
			t.Fatalf("InsertGame: %v", err)
		}
	}

	list, err := db.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 games, got %d", len(list))
	}
	// Ordered by rated_at DESC — g2 should be first.
	if list[0].GameID != "g2" {
		t.Errorf("expected g2 first (newest), got %s", list[0].GameID)
	}
}

func TestGetGame(t *testing.T) {
	db := openMemDB(t)

	db.InsertGame(model.GameSummary{GameID: "g1", RatedAt: "2026-01-01T00:00:00Z", Events: 400, Sequences: 350, Dropped: 1, FinalProb: 1})

	s, err := db.GetGame("g1")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if s == nil {
		t.Fatal("expected summary for g1")
	}
	if s.Events != 400 || s.Dropped != 1 {
		t.Errorf("summary mismatch: events=%d dropped=%d", s.Events, s.Dropped)
	}

	s2, err := db.GetGame("missing")
	if err != nil {
		t.Fatalf("GetGame no-match: %v", err)
	}
	if s2 != nil {
		t.Error("expected nil for unknown game")
	}
}

func TestAttributionRoundTrip(t *testing.T) {
	db := openMemDB(t)

	db.InsertGame(model.GameSummary{GameID: "g1", RatedAt: "2026-01-01T00:00:00Z", Events: 3, Sequences: 2, FinalProb: 1})

	records := []model.AttributionRecord{
		{GameID: "g1", EventIndex: 0, Player: 201939, Role: model.RolePrimary, Delta: 0.04},
		{GameID: "g1", EventIndex: 0, Player: 101108, Role: model.RoleSecondary, Delta: 0.01},
		{GameID: "g1", EventIndex: 2, Player: 2544, Role: model.RoleBlame, Delta: -0.03},
	}
	if err := db.InsertAttributions("g1", records); err != nil {
		t.Fatalf("InsertAttributions: %v", err)
	}

	got, err := db.GetAttributions("g1")
	if err != nil {
		t.Fatalf("GetAttributions: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 attribution rows, got %d", len(got))
	}
	if got[2].Player != 2544 || got[2].Role != model.RoleBlame {
		t.Errorf("unexpected last row: player=%d role=%s", got[2].Player, got[2].Role)
	}
	if got[2].Delta != -0.03 {
		t.Errorf("delta: want -0.03, got %f", got[2].Delta)
	}

	// Re-inserting replaces, not duplicates.
	if err := db.InsertAttributions("g1", records[:1]); err != nil {
		t.Fatalf("second InsertAttributions: %v", err)
	}
	got2, _ := db.GetAttributions("g1")
	if len(got2) != 1 {
		t.Errorf("expected 1 row after replace, got %d", len(got2))
	}
}

func TestPlayerGameImpactRoundTrip(t *testing.T) {
	db := openMemDB(t)

	db.InsertGame(model.GameSummary{GameID: "g1", RatedAt: "2026-01-01T00:00:00Z", Events: 10, Sequences: 8, FinalProb: 1})

	impacts := []model.PlayerGameImpact{
		{GameID: "g1", Player: 201939, Impact: 0.21, Events: 34},
		{GameID: "g1", Player: 2544, Impact: -0.05, Events: 28},
	}
	if err := db.InsertPlayerGameImpact(impacts); err != nil {
		t.Fatalf("InsertPlayerGameImpact: %v", err)
	}

	got, err := db.GetPlayerGameImpact("g1")
	if err != nil {
		t.Fatalf("GetPlayerGameImpact: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 impact rows, got %d", len(got))
	}
	// Ordered by impact DESC.
	if got[0].Player != 201939 {
		t.Errorf("expected 201939 first, got %d", got[0].Player)
	}
	if got[0].Impact != 0.21 || got[0].Events != 34 {
		t.Errorf("impact row mismatch: %+v", got[0])
	}
}

func TestSeasonLeaders(t *testing.T) {
	db := openMemDB(t)

	db.InsertGame(model.GameSummary{GameID: "g1", RatedAt: "2026-01-01T00:00:00Z", FinalProb: 1})
	db.InsertGame(model.GameSummary{GameID: "g2", RatedAt: "2026-01-02T00:00:00Z", FinalProb: 0})

	db.InsertPlayerGameImpact([]model.PlayerGameImpact{
		{GameID: "g1", Player: 201939, Impact: 0.20, Events: 30},
		{GameID: "g2", Player: 201939, Impact: 0.10, Events: 25},
		{GameID: "g1", Player: 2544, Impact: 0.25, Events: 32},
	})

	leaders, err := db.SeasonLeaders(0)
	if err != nil {
		t.Fatalf("SeasonLeaders: %v", err)
	}
	if len(leaders) != 2 {
		t.Fatalf("expected 2 leaders, got %d", len(leaders))
	}
	// 201939 totals 0.30 across two games; 2544 has 0.25 in one.
	if leaders[0].Player != 201939 || leaders[0].Games != 2 {
		t.Errorf("unexpected leader: %+v", leaders[0])
	}
	if leaders[0].Total < 0.299 || leaders[0].Total > 0.301 {
		t.Errorf("leader total: want 0.30, got %f", leaders[0].Total)
	}

	top1, err := db.SeasonLeaders(1)
	if err != nil {
		t.Fatalf("SeasonLeaders limit: %v", err)
	}
	if len(top1) != 1 {
		t.Errorf("expected 1 row with limit 1, got %d", len(top1))
	}
}

func TestGetPlayerSeason(t *testing.T) {
	db := openMemDB(t)

	db.InsertGame(model.GameSummary{GameID: "g1", RatedAt: "2026-01-01T00:00:00Z", FinalProb: 1})
	db.InsertGame(model.GameSummary{GameID: "g2", RatedAt: "2026-01-05T00:00:00Z", FinalProb: 0})

	db.InsertPlayerGameImpact([]model.PlayerGameImpact{
		{GameID: "g1", Player: 201939, Impact: 0.20, Events: 30},
		{GameID: "g2", Player: 201939, Impact: -0.04, Events: 25},
	})

	games, err := db.GetPlayerSeason(201939)
	if err != nil {
		t.Fatalf("GetPlayerSeason: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	// Newest rating first.
	if games[0].GameID != "g2" {
		t.Errorf("expected g2 first, got %s", games[0].GameID)
	}

	none, err := db.GetPlayerSeason(999)
	if err != nil {
		t.Fatalf("GetPlayerSeason unknown: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no rows for unknown player, got %d", len(none))
	}
}

func TestDeleteGame(t *testing.T) {
	db := openMemDB(t)

	db.InsertGame(model.GameSummary{GameID: "g1", RatedAt: "2026-01-01T00:00:00Z", FinalProb: 1})
	db.InsertAttributions("g1", []model.AttributionRecord{
		{GameID: "g1", EventIndex: 0, Player: 1, Role: model.RolePrimary, Delta: 0.01},
	})
	db.InsertPlayerGameImpact([]model.PlayerGameImpact{
		{GameID: "g1", Player: 1, Impact: 0.01, Events: 1},
	})

	if err := db.DeleteGame("g1"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}

	exists, _ := db.GameExists("g1")
	if exists {
		t.Error("expected game gone after delete")
	}
	attrs, _ := db.GetAttributions("g1")
	if len(attrs) != 0 {
		t.Errorf("expected attributions gone, got %d", len(attrs))
	}
	impacts, _ := db.GetPlayerGameImpact("g1")
	if len(impacts) != 0 {
		t.Errorf("expected impact rows gone, got %d", len(impacts))
	}
}

func TestInsertGameIdempotent(t *testing.T) {
	db := openMemDB(t)

	s := model.GameSummary{GameID: "g1", RatedAt: "2026-01-01T00:00:00Z", Events: 10, FinalProb: 1}
	db.InsertGame(s)
	s.Events = 12
	// Second insert replaces the summary (INSERT OR REPLACE).
	if err := db.InsertGame(s); err != nil {
		t.Errorf("second InsertGame should succeed (idempotent): %v", err)
	}
	got, _ := db.GetGame("g1")
	if got == nil || got.Events != 12 {
		t.Errorf("expected replaced summary with events=12, got %+v", got)
	}
}
