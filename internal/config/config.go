package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration, loaded from environment
// variables with sensible defaults for a local run.
type Config struct {
	// ServerAddr is the HTTP listen address.
	ServerAddr string

	// ClubName is the club whose players are extracted from each match.
	ClubName string

	// TeamURL is the source site's page listing the club's matches. Cards
	// without a score token (upcoming fixtures) are skipped during a pass.
	TeamURL string

	// DataFile is the persisted JSON collection of scraped games.
	DataFile string

	// MaxMatches caps how many recent matches one scrape pass visits.
	MaxMatches int

	// ScrapeRetries is the attempt count per match before it is omitted.
	ScrapeRetries int

	// RetryDelay is the base delay between attempts; the n-th retry waits
	// n times this value.
	RetryDelay time.Duration

	// NavTimeout bounds each browser navigation step.
	NavTimeout time.Duration

	// Headless toggles the browser's headless mode; disable for debugging.
	Headless bool
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		ClubName:      getEnv("CLUB_NAME", "NK Maribor"),
		TeamURL:       getEnv("TEAM_URL", "https://www.sofascore.com/team/football/nk-maribor/2420"),
		DataFile:      getEnv("DATA_FILE", "data/games.json"),
		MaxMatches:    getEnvInt("MAX_MATCHES", 10),
		ScrapeRetries: getEnvInt("SCRAPE_RETRIES", 3),
		RetryDelay:    time.Duration(getEnvInt("RETRY_DELAY_SECONDS", 2)) * time.Second,
		NavTimeout:    time.Duration(getEnvInt("NAV_TIMEOUT_SECONDS", 20)) * time.Second,
		Headless:      getEnvBool("HEADLESS", true),
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
