// Package stats derives dashboard aggregates from the scraped game
// collection: per-player/position rating summaries and a best formation.
package stats

import (
	"sort"

	"github.com/Khrashaka/maribor-scraper/internal/models"
)

// formationSlots caps how many players each position contributes to the
// best formation: a 4-4-2 plus the goalkeeper.
var formationSlots = map[models.Position]int{
	models.Goalkeeper: 1,
	models.Defender:   4,
	models.Midfielder: 4,
	models.Forward:    2,
}

// PlayerPositionStat summarizes one player's appearances in one position
// across all captured games.
type PlayerPositionStat struct {
	Name     string          `json:"name"`
	Position models.Position `json:"position"`
	Ratings  []float64       `json:"ratings"`
	Average  float64         `json:"average"`
	Best     float64         `json:"best"`
	Worst    float64         `json:"worst"`
	Count    int             `json:"count"`
	Games    int             `json:"games"`
	Minutes  int             `json:"minutes"`
}

// Aggregate groups every player appearance by (name, position), keeping
// first-appearance order, and computes the rating summary per group. Only
// valid ratings count; a player with none keeps zeroed average/best/worst.
func Aggregate(games []models.Game) []PlayerPositionStat {
	type key struct {
		name string
		pos  models.Position
	}
	index := map[key]int{}
	out := []PlayerPositionStat{}

	for _, g := range games {
		for _, p := range g.Players {
			k := key{name: p.Name, pos: p.Position}
			i, seen := index[k]
			if !seen {
				i = len(out)
				index[k] = i
				out = append(out, PlayerPositionStat{Name: p.Name, Position: p.Position})
			}
			out[i].Games++
			out[i].Minutes += p.Minutes
			if p.Rating != nil && models.ValidRating(*p.Rating) {
				out[i].Ratings = append(out[i].Ratings, *p.Rating)
			}
		}
	}

	for i := range out {
		st := &out[i]
		st.Count = len(st.Ratings)
		if st.Count == 0 {
			continue
		}
		sum := 0.0
		st.Best = st.Ratings[0]
		st.Worst = st.Ratings[0]
		for _, r := range st.Ratings {
			sum += r
			if r > st.Best {
				st.Best = r
			}
			if r < st.Worst {
				st.Worst = r
			}
		}
		st.Average = models.RoundRating(sum / float64(st.Count))
	}
	return out
}

// BestEleven selects the formation: per position, the highest-average
// players up to that position's slot count, in descending average order.
// Players without a single valid rating and players of unknown position
// never make the lineup. Ties keep aggregation (insertion) order.
func BestEleven(stats []PlayerPositionStat) []PlayerPositionStat {
	ranked := make([]PlayerPositionStat, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Average > ranked[j].Average
	})

	taken := map[models.Position]int{}
	lineup := []PlayerPositionStat{}
	for _, st := range ranked {
		if st.Count == 0 {
			continue
		}
		slots, ok := formationSlots[st.Position]
		if !ok || taken[st.Position] >= slots {
			continue
		}
		taken[st.Position]++
		lineup = append(lineup, st)
	}
	return lineup
}
