// Package store persists the scraped game collection as a single JSON file
// that each successful scrape pass overwrites wholesale.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Khrashaka/maribor-scraper/internal/models"
)

// Store is a JSON-file-backed game collection. The mutex serializes the
// concurrent HTTP handlers; scraping itself is sequential.
type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Games returns the persisted collection. A store that has never been
// written yields an empty, non-nil slice.
func (s *Store) Games() ([]models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []models.Game{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	var games []models.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	if games == nil {
		games = []models.Game{}
	}
	return games, nil
}

// Replace overwrites the whole collection with games, creating the parent
// directory on first write.
func (s *Store) Replace(games []models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if games == nil {
		games = []models.Game{}
	}
	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding games: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
