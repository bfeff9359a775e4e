// Package server exposes the scraped collection and its aggregates over
// HTTP and triggers scrape passes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Khrashaka/maribor-scraper/internal/scraper"
	"github.com/Khrashaka/maribor-scraper/internal/stats"
	"github.com/Khrashaka/maribor-scraper/internal/store"
)

// ScrapeRunner performs one scrape pass. Satisfied by *scraper.Scraper;
// tests substitute a stub.
type ScrapeRunner interface {
	Run(ctx context.Context) (*scraper.Result, error)
}

type Server struct {
	store   *store.Store
	scraper ScrapeRunner
	router  *mux.Router
}

func New(st *store.Store, sc ScrapeRunner) *Server {
	s := &Server{store: st, scraper: sc}
	r := mux.NewRouter()
	r.HandleFunc("/api/games", s.getGames).Methods("GET")
	r.HandleFunc("/api/scrape", s.postScrape).Methods("POST")
	r.HandleFunc("/api/stats", s.getStats).Methods("GET")
	r.HandleFunc("/api/stats/best-eleven", s.getBestEleven).Methods("GET")
	r.HandleFunc("/", dashboardHandler).Methods("GET")
	s.router = r
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// getGames returns the persisted game collection.
func (s *Server) getGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.Games()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// scrapeResponse is the POST /api/scrape success payload.
type scrapeResponse struct {
	RunID         string    `json:"run_id"`
	GamesCaptured int       `json:"games_captured"`
	CapturedAt    time.Time `json:"captured_at"`
}

// postScrape runs a fresh scrape pass and replaces the persisted
// collection. An unreachable source surfaces as a 502 error payload.
func (s *Server) postScrape(w http.ResponseWriter, r *http.Request) {
	result, err := s.scraper.Run(r.Context())
	if err == nil && result == nil {
		err = errors.New("scrape pass returned no result")
	}
	if err != nil {
		slog.Error("scrape pass failed", "err", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if err := s.store.Replace(result.Games); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, scrapeResponse{
		RunID:         result.RunID,
		GamesCaptured: len(result.Games),
		CapturedAt:    time.Now().UTC(),
	})
}

// getStats returns per-player/position aggregates over all captured games.
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.Games()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Aggregate(games))
}

// getBestEleven returns the derived best formation.
func (s *Server) getBestEleven(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.Games()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.BestEleven(stats.Aggregate(games)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// dashboardHandler serves the single-page dashboard at the root endpoint.
func dashboardHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, dashboardHTML)
}
