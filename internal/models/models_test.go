package models_test

import (
	"testing"

	"github.com/Khrashaka/maribor-scraper/internal/models"
)

func TestParsePosition(t *testing.T) {
	cases := []struct {
		raw  string
		want models.Position
	}{
		{"G", models.Goalkeeper},
		{"gk", models.Goalkeeper},
		{"D", models.Defender},
		{"Defender", models.Defender},
		{"M", models.Midfielder},
		{" mf ", models.Midfielder},
		{"F", models.Forward},
		{"ST", models.Forward},
		{"coach", models.Unknown},
		{"", models.Unknown},
	}
	for _, c := range cases {
		if got := models.ParsePosition(c.raw); got != c.want {
			t.Errorf("ParsePosition(%q): expected %s, got %s", c.raw, c.want, got)
		}
	}
}

func TestValidRating(t *testing.T) {
	cases := []struct {
		v    float64
		want bool
	}{
		{5.0, true},
		{10.0, true},
		{7.3, true},
		{4.9, false},
		{10.1, false},
		{0, false},
	}
	for _, c := range cases {
		if got := models.ValidRating(c.v); got != c.want {
			t.Errorf("ValidRating(%v): expected %v, got %v", c.v, c.want, got)
		}
	}
}

func TestRoundRating(t *testing.T) {
	cases := []struct {
		v    float64
		want float64
	}{
		{7.25, 7.3},
		{7.24, 7.2},
		{6.999, 7.0},
		{7.0, 7.0},
	}
	for _, c := range cases {
		if got := models.RoundRating(c.v); got != c.want {
			t.Errorf("RoundRating(%v): expected %v, got %v", c.v, c.want, got)
		}
	}
}
