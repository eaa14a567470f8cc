package engine

import (
	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/rng"
	"github.com/jwebster45206/musilife/pkg/state"
)

// OutcomeResult is the resolution of an opportunity choice.
type OutcomeResult struct {
	Index   int              `json:"index"`
	Outcome *content.Outcome `json:"outcome"`
	Score   float64          `json:"score"`
	Roll    float64          `json:"roll"`
	// Total is score plus roll. It is reported for flavor and does not
	// influence which outcome is selected.
	Total float64 `json:"total"`
}

// Score sums stat * weight over the formula. Unknown stats count as 0.
func Score(p *state.PlayerState, f content.Formula) float64 {
	var score float64
	for name, weight := range f.Weights {
		score += float64(p.Stat(name)) * weight
	}
	return score
}

// ResolveOpportunity picks an outcome for choice. It draws the flavor roll
// first and the outcome second.
func ResolveOpportunity(p *state.PlayerState, choice *content.Choice, src rng.Source) OutcomeResult {
	score := Score(p, choice.Formula)
	roll := src.Float64() * 100
	idx := SelectWeighted(choice.Outcomes, src)
	return OutcomeResult{
		Index:   idx,
		Outcome: &choice.Outcomes[idx],
		Score:   score,
		Roll:    roll,
		Total:   score + roll,
	}
}

// SelectWeighted draws r in [0, total weight) and walks the outcomes in order,
// subtracting each weight. The first outcome that brings r to zero or below
// wins; if rounding leaves none, the last weighted outcome is used.
// Zero-weight outcomes are never selected.
func SelectWeighted(outcomes []content.Outcome, src rng.Source) int {
	var total float64
	last := len(outcomes) - 1
	for i, o := range outcomes {
		if o.Weight > 0 {
			total += o.Weight
			last = i
		}
	}
	r := src.Float64() * total
	for i, o := range outcomes {
		if o.Weight <= 0 {
			continue
		}
		r -= o.Weight
		if r <= 0 {
			return i
		}
	}
	return last
}
