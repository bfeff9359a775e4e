package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Khrashaka/maribor-scraper/internal/models"
	"github.com/Khrashaka/maribor-scraper/internal/scraper"
	"github.com/Khrashaka/maribor-scraper/internal/server"
	"github.com/Khrashaka/maribor-scraper/internal/store"
)

// stubScraper satisfies server.ScrapeRunner without a browser.
type stubScraper struct {
	result *scraper.Result
	err    error
}

func (s *stubScraper) Run(ctx context.Context) (*scraper.Result, error) {
	return s.result, s.err
}

func newTestServer(t *testing.T, sc server.ScrapeRunner) (*server.Server, *store.Store) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "games.json"))
	return server.New(st, sc), st
}

func rating(v float64) *float64 {
	return &v
}

func sampleGames() []models.Game {
	return []models.Game{
		{
			ID: "123456", HomeTeam: "NK Maribor", AwayTeam: "NK Celje", Score: "2:1",
			Players: []models.Player{
				{Name: "Jug", Position: models.Goalkeeper, Rating: rating(7.2), Minutes: 90, Starting: true},
				{Name: "Repas", Position: models.Midfielder, Rating: rating(7.9), Minutes: 90, Starting: true},
			},
			RatingsFound: true,
		},
		{ID: "123457", HomeTeam: "NS Mura", AwayTeam: "NK Maribor", Score: "0:0",
			Players: []models.Player{}},
	}
}

func TestGetGames_EmptyStore(t *testing.T) {
	srv, _ := newTestServer(t, &stubScraper{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/games", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var games []models.Game
	if err := json.Unmarshal(rec.Body.Bytes(), &games); err != nil {
		t.Fatalf("Response is not a JSON array: %v (%s)", err, rec.Body.String())
	}
	if len(games) != 0 {
		t.Errorf("Expected empty collection, got %d games", len(games))
	}
}

func TestPostScrape_PersistsAndReportsCount(t *testing.T) {
	sc := &stubScraper{result: &scraper.Result{RunID: "run-1", Games: sampleGames()}}
	srv, st := newTestServer(t, sc)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/scrape", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		RunID         string `json:"run_id"`
		GamesCaptured int    `json:"games_captured"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decoding response: %v", err)
	}
	if resp.RunID != "run-1" {
		t.Errorf("Expected run_id run-1, got %s", resp.RunID)
	}
	if resp.GamesCaptured != 2 {
		t.Errorf("Expected 2 games captured, got %d", resp.GamesCaptured)
	}

	games, err := st.Games()
	if err != nil {
		t.Fatalf("Reading store: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("Expected scrape to persist 2 games, got %d", len(games))
	}
	// The match without ratings stays in the collection.
	if games[1].ID != "123457" || len(games[1].Players) != 0 {
		t.Errorf("Expected empty-player game persisted, got %+v", games[1])
	}
}

func TestPostScrape_SourceUnreachable(t *testing.T) {
	sc := &stubScraper{err: errors.New("fetching team page: context deadline exceeded")}
	srv, st := newTestServer(t, sc)

	// Seed the store so we can check a failed pass does not clobber it.
	if err := st.Replace(sampleGames()); err != nil {
		t.Fatalf("Seeding store: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/scrape", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decoding error payload: %v", err)
	}
	if resp["error"] == "" {
		t.Error("Expected error field in payload")
	}

	games, _ := st.Games()
	if len(games) != 2 {
		t.Errorf("Expected failed scrape to leave the collection alone, got %d games", len(games))
	}
}

func TestPostScrape_NilResult(t *testing.T) {
	// Zero-value stub: Run returns (nil, nil).
	srv, st := newTestServer(t, &stubScraper{})
	if err := st.Replace(sampleGames()); err != nil {
		t.Fatalf("Seeding store: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/scrape", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502 for a nil scrape result, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decoding error payload: %v", err)
	}
	if resp["error"] == "" {
		t.Error("Expected error field in payload")
	}

	games, _ := st.Games()
	if len(games) != 2 {
		t.Errorf("Expected the collection left alone, got %d games", len(games))
	}
}

func TestGetStats(t *testing.T) {
	srv, st := newTestServer(t, &stubScraper{})
	if err := st.Replace(sampleGames()); err != nil {
		t.Fatalf("Seeding store: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var out []struct {
		Name    string  `json:"name"`
		Average float64 `json:"average"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Decoding stats: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Expected 2 player stats, got %d", len(out))
	}
	if out[0].Name != "Jug" || out[0].Average != 7.2 {
		t.Errorf("Expected Jug avg 7.2 first, got %+v", out[0])
	}
}

func TestGetBestEleven(t *testing.T) {
	srv, st := newTestServer(t, &stubScraper{})
	if err := st.Replace(sampleGames()); err != nil {
		t.Fatalf("Seeding store: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats/best-eleven", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var out []struct {
		Name     string          `json:"name"`
		Position models.Position `json:"position"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Decoding lineup: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Expected 2 lineup entries, got %d", len(out))
	}
	// Highest average first.
	if out[0].Name != "Repas" || out[1].Name != "Jug" {
		t.Errorf("Expected Repas then Jug, got %+v", out)
	}
}

func TestDashboardServed(t *testing.T) {
	srv, _ := newTestServer(t, &stubScraper{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Expected HTML content type, got %q", ct)
	}
}

func TestScrapeRequiresPost(t *testing.T) {
	srv, _ := newTestServer(t, &stubScraper{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/scrape", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /api/scrape, got %d", rec.Code)
	}
}
