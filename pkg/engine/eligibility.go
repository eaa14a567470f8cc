package engine

import (
	"github.com/jwebster45206/musilife/pkg/conditionals"
	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/state"
)

// Selection is the result of an eligibility query.
type Selection[T any] struct {
	Items []*T
	// Reset is true when every unused item was exhausted, the used set was
	// cleared and Items was computed ignoring recency.
	Reset bool
}

// AvailableQuestions returns the questions the player may be offered.
// It prefers questions not used this cycle and falls back to any eligible question,
// clearing the player's used set when it does.
func AvailableQuestions(c *content.Catalog, p *state.PlayerState) Selection[content.Question] {
	return selectAvailable(c.Questions, p, &p.UsedQuestions)
}

// AvailableOpportunities is AvailableQuestions for opportunities.
func AvailableOpportunities(c *content.Catalog, p *state.PlayerState) Selection[content.Opportunity] {
	return selectAvailable(c.Opportunities, p, &p.UsedOpportunities)
}

func selectAvailable[T any, PT interface {
	*T
	content.Item
}](items []T, p *state.PlayerState, used *map[string]bool) Selection[T] {
	fresh := filterEligible[T, PT](items, p, *used)
	if len(fresh) > 0 {
		return Selection[T]{Items: fresh}
	}

	hadHistory := len(*used) > 0
	*used = make(map[string]bool)
	return Selection[T]{
		Items: filterEligible[T, PT](items, p, nil),
		Reset: hadHistory,
	}
}

func filterEligible[T any, PT interface {
	*T
	content.Item
}](items []T, p *state.PlayerState, used map[string]bool) []*T {
	var out []*T
	for i := range items {
		item := PT(&items[i])
		if IsEligible(item, p) && !used[item.ItemID()] {
			out = append(out, &items[i])
		}
	}
	return out
}

// IsEligible checks the age window and requirement predicate of an item.
func IsEligible(item content.Item, p *state.PlayerState) bool {
	return item.Ages().Contains(p.Age) && conditionals.Evaluate(item.Requirement(), p)
}
