package display

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer    = message.NewPrinter(language.English)
	titleCaser = cases.Title(language.English)
)

// Delta is one field change to be shown to the player.
type Delta struct {
	Field  string
	Change float64
}

// PhaseTitle renders a phase name for a header, e.g. "Decision Phase".
func PhaseTitle(phase string) string {
	return titleCaser.String(strings.ToLower(phase)) + " Phase"
}

// Title returns s in title case. Underscores become spaces.
func Title(s string) string {
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(s), "_", " "))
}

// Number formats v with thousands separators. Whole numbers print without
// decimals; anything else keeps up to two.
func Number(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	s := printer.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Money formats v as dollars, e.g. "$1,250" or "-$50".
func Money(v float64) string {
	if v < 0 {
		return "-$" + Number(-v)
	}
	return "$" + Number(v)
}

// Signed formats a change with an explicit sign. Money changes use dollars.
func Signed(field string, change float64) string {
	sign := "+"
	if change < 0 {
		sign = "-"
		change = -change
	}
	if field == "money" {
		return sign + "$" + Number(change)
	}
	return sign + Number(change)
}

// Deltas renders changes as "vocals +2, money -$50". Zero changes are skipped.
// An empty result reads "no change".
func Deltas(deltas []Delta) string {
	parts := make([]string, 0, len(deltas))
	for _, d := range deltas {
		if d.Change == 0 {
			continue
		}
		parts = append(parts, d.Field+" "+Signed(d.Field, d.Change))
	}
	if len(parts) == 0 {
		return "no change"
	}
	return strings.Join(parts, ", ")
}

// StatPercent maps a stat in [-5, 25] onto a 0-100 bar.
func StatPercent(v int) float64 {
	shifted := max(0, v+5)
	return math.Min(100, float64(shifted)/30*100)
}
