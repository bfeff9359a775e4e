// Package scraper drives a headless browser through the source site's team
// and match pages and extracts per-player match statistics for one club.
// All extraction is best-effort DOM heuristics against markup the site may
// change at any time; failures degrade to partial results.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/Khrashaka/maribor-scraper/internal/config"
	"github.com/Khrashaka/maribor-scraper/internal/models"
)

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// lineupTabLabels are the visible tab texts tried, in order, to reach the
// lineups panel of a match page.
var lineupTabLabels = []string{"Lineups", "Line-ups", "Postave", "Sestave"}

// pageFetcher renders pages for one scrape pass. The production
// implementation drives a chromedp browser; tests substitute a canned
// fetcher.
type pageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
	OpenLineupTab(ctx context.Context) (string, error)
}

// Scraper performs one sequential scrape pass per Run call. A single
// browser page is driven through one match at a time; there is no parallel
// fetching.
type Scraper struct {
	cfg     *config.Config
	fetcher pageFetcher // nil means drive a real browser
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{cfg: cfg}
}

// Result is the outcome of one scrape pass.
type Result struct {
	RunID string
	Games []models.Game
}

// Run scrapes the club's recent matches. It returns an error only when the
// team page itself cannot be reached or yields no match links; individual
// match failures are logged and omitted.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := slog.With("run_id", runID, "club", s.cfg.ClubName)

	fetcher := s.fetcher
	if fetcher == nil {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", s.cfg.Headless),
			chromedp.UserAgent(browserUA),
		)
		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
		defer cancelAlloc()
		browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
		defer cancelBrowser()
		ctx = browserCtx
		fetcher = &browserFetcher{cfg: s.cfg}
	}

	log.Info("scrape pass starting", "team_url", s.cfg.TeamURL)

	teamHTML, err := fetcher.FetchPage(ctx, s.cfg.TeamURL)
	if err != nil {
		return nil, fmt.Errorf("fetching team page: %w", err)
	}
	refs, err := extractMatchRefs(teamHTML, s.cfg.TeamURL, s.cfg.MaxMatches)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("no match links found on %s", s.cfg.TeamURL)
	}
	log.Info("match links found", "count", len(refs))

	var games []models.Game
	for _, ref := range refs {
		game, err := s.scrapeMatchWithRetry(ctx, fetcher, ref)
		if err != nil {
			log.Warn("match omitted after retries", "match_url", ref.URL, "err", err)
			continue
		}
		games = append(games, *game)
	}
	log.Info("scrape pass finished", "games", len(games), "omitted", len(refs)-len(games))
	return &Result{RunID: runID, Games: games}, nil
}

// scrapeMatchWithRetry attempts one match up to ScrapeRetries times with a
// linearly increasing delay between attempts.
func (s *Scraper) scrapeMatchWithRetry(ctx context.Context, fetcher pageFetcher, ref MatchRef) (*models.Game, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.ScrapeRetries; attempt++ {
		game, err := s.scrapeMatch(ctx, fetcher, ref)
		if err == nil {
			return game, nil
		}
		lastErr = err
		slog.Warn("match scrape attempt failed", "match_url", ref.URL, "attempt", attempt, "err", err)
		if attempt < s.cfg.ScrapeRetries {
			select {
			case <-time.After(retryDelay(s.cfg.RetryDelay, attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// retryDelay grows linearly with the attempt number.
func retryDelay(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(attempt)
}

// scrapeMatch navigates to one match page and builds its Game record. A
// page whose header parses but whose lineups cannot be read still yields a
// Game with an empty player list.
func (s *Scraper) scrapeMatch(ctx context.Context, fetcher pageFetcher, ref MatchRef) (*models.Game, error) {
	html, err := fetcher.FetchPage(ctx, ref.URL)
	if err != nil {
		return nil, err
	}
	header, err := parseMatchHeader(html)
	if err != nil {
		return nil, err
	}

	id := ref.ID
	if id == "" {
		id = uuid.NewString()
	}
	game := &models.Game{
		ID:         id,
		URL:        ref.URL,
		Date:       header.Date,
		HomeTeam:   header.HomeTeam,
		AwayTeam:   header.AwayTeam,
		Score:      header.Score,
		Players:    []models.Player{},
		CapturedAt: time.Now().UTC(),
	}

	clubHome, ok := clubIsHome(html, header, s.cfg.ClubName)
	if !ok {
		slog.Warn("club side not detected, recording match without players",
			"match_url", ref.URL, "home", header.HomeTeam, "away", header.AwayTeam)
		return game, nil
	}

	lineupHTML, err := fetcher.OpenLineupTab(ctx)
	if err != nil {
		slog.Warn("lineups tab not reached, recording match without players",
			"match_url", ref.URL, "err", err)
		return game, nil
	}
	players, ratingsFound := parseLineup(lineupHTML, clubHome)
	if players != nil {
		game.Players = players
	}
	game.RatingsFound = ratingsFound
	if !ratingsFound {
		slog.Warn("no reliable ratings on match page", "match_url", ref.URL)
	}
	return game, nil
}

// browserFetcher renders pages through the browser context created by Run.
type browserFetcher struct {
	cfg *config.Config
}

// FetchPage navigates to url and returns the rendered document, bounded by
// the configured per-navigation timeout.
func (f *browserFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	navCtx, cancel := context.WithTimeout(ctx, f.cfg.NavTimeout)
	defer cancel()
	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	return html, nil
}

// OpenLineupTab clicks through the candidate tab labels on the current page
// and returns the re-rendered document once one of them responds.
func (f *browserFetcher) OpenLineupTab(ctx context.Context) (string, error) {
	var lastErr error
	for _, label := range lineupTabLabels {
		tabCtx, cancel := context.WithTimeout(ctx, f.cfg.NavTimeout)
		sel := fmt.Sprintf(`//*[self::button or self::a or self::div][contains(normalize-space(.), %q)]`, label)
		var html string
		err := chromedp.Run(tabCtx,
			chromedp.Click(sel, chromedp.BySearch),
			chromedp.Sleep(500*time.Millisecond),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
		cancel()
		if err == nil {
			return html, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("no lineup tab matched %v: %w", lineupTabLabels, lastErr)
}
