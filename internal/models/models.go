package models

import (
	"math"
	"strings"
	"time"
)

// Position is the coarse lineup role assigned to a player by the source site.
type Position string

const (
	Goalkeeper Position = "goalkeeper"
	Defender   Position = "defender"
	Midfielder Position = "midfielder"
	Forward    Position = "forward"
	Unknown    Position = "unknown"
)

// ParsePosition maps the abbreviations and labels the source site uses onto
// the fixed position set. Anything unrecognized is Unknown.
func ParsePosition(raw string) Position {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "G", "GK", "GOALKEEPER":
		return Goalkeeper
	case "D", "DF", "DEF", "DEFENDER":
		return Defender
	case "M", "MF", "MID", "MIDFIELDER":
		return Midfielder
	case "F", "FW", "ST", "A", "FORWARD", "ATTACKER", "STRIKER":
		return Forward
	}
	return Unknown
}

// Player is one club player's appearance in a single game.
type Player struct {
	Name     string   `json:"name"`
	Rating   *float64 `json:"rating"`
	Position Position `json:"position"`
	Minutes  int      `json:"minutes"`
	Starting bool     `json:"starting"`
}

// Game is one scraped match. Records are immutable once captured; the
// persisted collection is replaced wholesale on the next scrape pass.
type Game struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Date         string    `json:"date"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	Score        string    `json:"score"`
	Players      []Player  `json:"players"`
	RatingsFound bool      `json:"ratings_found"`
	CapturedAt   time.Time `json:"captured_at"`
}

// ValidRating reports whether v lies on the source site's usable rating
// scale. Values outside the window are shirt numbers, minutes or other
// numerics misread as ratings.
func ValidRating(v float64) bool {
	return v >= 5.0 && v <= 10.0
}

// RoundRating rounds to one decimal, half away from zero.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
