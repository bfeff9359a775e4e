package scraper

import (
	"fmt"
	"log/slog"
	neturl "net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Khrashaka/maribor-scraper/internal/models"
)

var (
	matchHrefRe = regexp.MustCompile(`/(?:match|event|zapas)/[^"'\s]+`)
	matchIDRe   = regexp.MustCompile(`(\d{5,})/?$`)
	scoreRe     = regexp.MustCompile(`\b([0-9]{1,2})\s*[:\-]\s*([0-9]{1,2})\b`)
	clockRe     = regexp.MustCompile(`\b(?:[01]?[0-9]|2[0-3]):[0-5][0-9]\b`)
	ratingRe    = regexp.MustCompile(`^(?:[0-9]|10)\.[0-9]$`)
	minutesRe   = regexp.MustCompile(`([0-9]{1,3})['’]`)
	dateRe      = regexp.MustCompile(`\d{1,2}[./]\d{1,2}[./]\d{2,4}|\d{4}-\d{2}-\d{2}`)
)

// MatchRef is one match link found on the team results page.
type MatchRef struct {
	ID  string
	URL string
}

// MatchHeader holds the identifying fields of a match page.
type MatchHeader struct {
	HomeTeam string
	AwayTeam string
	Score    string
	Date     string
}

// extractMatchRefs finds links to finished-match pages in the rendered team
// page. Only hrefs matching the match-path pattern are kept, and only cards
// whose text carries a score token; fixture cards show a kickoff date or
// time instead. Relative links are resolved against baseURL. Deduplicated by
// ID, page order preserved.
func extractMatchRefs(html, baseURL string, limit int) ([]MatchRef, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing team page: %w", err)
	}
	base, err := neturl.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %s: %w", baseURL, err)
	}
	var refs []MatchRef
	seen := map[string]struct{}{}
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		if limit > 0 && len(refs) >= limit {
			return
		}
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || !matchHrefRe.MatchString(href) {
			return
		}
		if !scoreRe.MatchString(stripDateTokens(a.Text())) {
			return
		}
		url := href
		if rel, err := neturl.Parse(href); err == nil {
			url = base.ResolveReference(rel).String()
		}
		id := matchIDFromURL(url)
		key := id
		if key == "" {
			key = url
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		refs = append(refs, MatchRef{ID: id, URL: url})
	})
	return refs, nil
}

// stripDateTokens blanks date and clock-time tokens so they cannot read as
// scores (2026-03-14 would otherwise yield 03:14).
func stripDateTokens(s string) string {
	return clockRe.ReplaceAllString(dateRe.ReplaceAllString(s, " "), " ")
}

// matchIDFromURL returns the trailing numeric token of a match URL, or "".
func matchIDFromURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if m := matchIDRe.FindStringSubmatch(url); len(m) == 2 {
		return m[1]
	}
	return ""
}

// parseMatchHeader extracts team names, score and date from a match page.
// Both teams are required; score and date are best-effort.
func parseMatchHeader(html string) (MatchHeader, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return MatchHeader{}, fmt.Errorf("parsing match page: %w", err)
	}
	var h MatchHeader

	// Team names from header blocks; the site marks each side's block with a
	// team/participant class and puts the name in a nested span or anchor.
	var names []string
	doc.Find("[class*=team], [class*=participant]").Each(func(_ int, s *goquery.Selection) {
		if len(names) >= 2 {
			return
		}
		name := strings.TrimSpace(s.Find("span, a").First().Text())
		if name == "" {
			name = strings.TrimSpace(s.Text())
		}
		if name == "" || len(name) > 60 {
			return
		}
		for _, prev := range names {
			if strings.EqualFold(prev, name) {
				return
			}
		}
		names = append(names, name)
	})
	if len(names) < 2 {
		return MatchHeader{}, fmt.Errorf("match header: found %d team names, need 2", len(names))
	}
	h.HomeTeam, h.AwayTeam = names[0], names[1]

	// Score: first N:M (or N-M) token in a score-marked node, falling back to
	// the page header text. Header text mixes the kickoff date and time in
	// with the result, so those tokens are stripped first.
	scoreText := strings.TrimSpace(doc.Find("[class*=score]").First().Text())
	if scoreText == "" {
		scoreText = stripDateTokens(doc.Find("h1, header").First().Text())
	}
	if m := scoreRe.FindStringSubmatch(scoreText); len(m) == 3 {
		h.Score = fmt.Sprintf("%s:%s", m[1], m[2])
	}

	// Date: first date-looking token in time elements, then anywhere near the
	// header.
	doc.Find("time").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if dt := strings.TrimSpace(t.AttrOr("datetime", "")); dt != "" {
			h.Date = dt
			return false
		}
		if m := dateRe.FindString(t.Text()); m != "" {
			h.Date = m
			return false
		}
		return true
	})
	if h.Date == "" {
		h.Date = dateRe.FindString(doc.Find("header, h1, [class*=info]").Text())
	}
	return h, nil
}

// clubIsHome decides which side of the match the club occupies. Logo images
// are checked first (src or alt referencing the club), since header blocks
// keep aliases the name match misses. Falls back to case-folded name
// containment against the header teams.
func clubIsHome(html string, h MatchHeader, clubName string) (home bool, ok bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		var logoSides []bool // true = appears before the score node
		scoreSeen := false
		doc.Find("img, [class*=score]").Each(func(_ int, s *goquery.Selection) {
			if goquery.NodeName(s) != "img" {
				scoreSeen = true
				return
			}
			alt := strings.ToLower(s.AttrOr("alt", ""))
			src := strings.ToLower(s.AttrOr("src", ""))
			token := logoToken(clubName)
			if token != "" && (strings.Contains(alt, token) || strings.Contains(src, token)) {
				logoSides = append(logoSides, !scoreSeen)
			}
		})
		if len(logoSides) == 1 {
			return logoSides[0], true
		}
	}
	if containsFold(h.HomeTeam, clubName) || containsFold(clubName, h.HomeTeam) {
		return true, true
	}
	if containsFold(h.AwayTeam, clubName) || containsFold(clubName, h.AwayTeam) {
		return false, true
	}
	// Last resort: a simplified token of the club name (e.g. "maribor").
	token := logoToken(clubName)
	if token != "" {
		if containsFold(h.HomeTeam, token) {
			return true, true
		}
		if containsFold(h.AwayTeam, token) {
			return false, true
		}
	}
	return false, false
}

// logoToken picks the most identifying lowercase token of a club name,
// skipping legal/organizational prefixes like "NK" or "FC".
func logoToken(clubName string) string {
	skip := map[string]struct{}{
		"nk": {}, "fc": {}, "fk": {}, "sk": {}, "ac": {}, "cf": {}, "afc": {}, "club": {},
	}
	for _, part := range strings.Fields(clubName) {
		lt := strings.ToLower(strings.Trim(part, ",.;:-()"))
		if _, banned := skip[lt]; banned || len([]rune(lt)) < 3 {
			continue
		}
		return lt
	}
	return ""
}

func containsFold(s, substr string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	substr = strings.ToLower(strings.TrimSpace(substr))
	if substr == "" {
		return false
	}
	return strings.Contains(s, substr)
}

// parseLineup extracts the club's players from the rendered lineups tab.
// clubHome selects which lineup column belongs to the club. Returns the
// players and whether any reliable rating was found.
func parseLineup(html string, clubHome bool) ([]models.Player, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("lineup html did not parse", "err", err)
		return nil, false
	}

	// Lineup columns: one container per team, rows marked with a player
	// class. When the page renders a single flat list instead, home players
	// come first and the halves are split evenly.
	var columns []*goquery.Selection
	doc.Find("[class*=lineup], [class*=Lineup]").Each(func(_ int, c *goquery.Selection) {
		if c.Find("[class*=player], [class*=Player]").Length() > 0 {
			columns = append(columns, c)
		}
	})

	var rows *goquery.Selection
	switch {
	case len(columns) >= 2:
		if clubHome {
			rows = columns[0].Find("[class*=player], [class*=Player]")
		} else {
			rows = columns[1].Find("[class*=player], [class*=Player]")
		}
	case len(columns) == 1:
		all := columns[0].Find("[class*=player], [class*=Player]")
		rows = splitHalf(all, clubHome)
	default:
		all := doc.Find("[class*=player], [class*=Player]")
		if all.Length() == 0 {
			return nil, false
		}
		rows = splitHalf(all, clubHome)
	}

	var players []models.Player
	ratingsFound := false
	benchStart := benchIndex(rows)
	rows.Each(func(i int, row *goquery.Selection) {
		p, ok := parsePlayerRow(row)
		if !ok {
			return
		}
		if benchStart >= 0 {
			p.Starting = i < benchStart
		} else {
			p.Starting = len(players) < 11
		}
		if p.Rating != nil {
			ratingsFound = true
		}
		players = append(players, p)
	})
	return players, ratingsFound
}

// splitHalf returns the club's half of a flat two-team row list.
func splitHalf(all *goquery.Selection, clubHome bool) *goquery.Selection {
	n := all.Length()
	if clubHome {
		return all.Slice(0, n/2)
	}
	return all.Slice(n/2, n)
}

// benchIndex finds the row index where substitutes begin, by walking up from
// each row to a section whose heading text names the bench. -1 if no marker
// exists in the markup.
func benchIndex(rows *goquery.Selection) int {
	idx := -1
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		sect := row.Closest("section, [class*=substitut], [class*=bench]")
		if sect.Length() == 0 {
			return true
		}
		heading := strings.ToLower(sect.AttrOr("class", "") + " " + sect.Find("h2, h3, h4").First().Text())
		if strings.Contains(heading, "substitut") || strings.Contains(heading, "bench") {
			idx = i
			return false
		}
		return true
	})
	return idx
}

// parsePlayerRow pulls name, position, minutes and rating out of one lineup
// row. The rating cell has no stable class, so every short numeric text node
// in the row is tested against the one-decimal pattern and the valid rating
// window; the last candidate wins, ratings render after minutes.
func parsePlayerRow(row *goquery.Selection) (models.Player, bool) {
	var p models.Player

	name := strings.TrimSpace(row.Find("[class*=name], a").First().Text())
	if name == "" {
		// Fallback: longest non-numeric text chunk in the row.
		row.Find("span, div, td").Each(func(_ int, s *goquery.Selection) {
			t := strings.TrimSpace(s.Text())
			if len(t) > len(name) && !ratingRe.MatchString(t) && !minutesRe.MatchString(t) {
				name = t
			}
		})
	}
	if name == "" || len(name) > 60 {
		return p, false
	}
	p.Name = name

	p.Position = models.ParsePosition(row.AttrOr("data-position", ""))
	if p.Position == models.Unknown {
		row.Find("[class*=position], [class*=pos]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if pos := models.ParsePosition(s.Text()); pos != models.Unknown {
				p.Position = pos
				return false
			}
			return true
		})
	}

	rowText := row.Text()
	if m := minutesRe.FindStringSubmatch(rowText); len(m) == 2 {
		if mins, err := strconv.Atoi(m[1]); err == nil && mins <= 120 {
			p.Minutes = mins
		}
	}

	row.Find("span, div, td").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if !ratingRe.MatchString(t) {
			return
		}
		v, err := strconv.ParseFloat(t, 64)
		if err != nil || !models.ValidRating(v) {
			return
		}
		r := models.RoundRating(v)
		p.Rating = &r
	})

	return p, true
}
