package engine

import (
	"fmt"
	"math"

	"github.com/jwebster45206/musilife/pkg/display"
	"github.com/jwebster45206/musilife/pkg/rng"
	"github.com/jwebster45206/musilife/pkg/state"
)

// Aging item kinds
const (
	AgingHealthDecay = "health_decay"
	AgingLivingCosts = "living_costs"
	AgingFameIncome  = "fame_income"
	AgingMerchIncome = "merch_income"
)

// AgingItem is one applied aging effect.
type AgingItem struct {
	Kind   string  `json:"kind"`
	Amount float64 `json:"amount"`
	Text   string  `json:"text"`
}

// AgingReport summarizes one age advance.
type AgingReport struct {
	FromAge   int          `json:"from_age"`
	ToAge     int          `json:"to_age"`
	Items     []AgingItem  `json:"items,omitempty"`
	NetMoney  float64      `json:"net_money"`
	NetHealth float64      `json:"net_health"`
	Changes   ChangeRecord `json:"changes,omitempty"`
}

// Summary is the combined log line for the report.
func (r AgingReport) Summary() string {
	return "Another year older: " + display.Deltas([]display.Delta{
		{Field: state.ResourceMoney, Change: r.NetMoney},
		{Field: state.ResourceHealth, Change: r.NetHealth},
	})
}

type band struct {
	from     int // inclusive lower age bound
	min, max int
}

// Bands are checked from the top down; the first with from <= age applies.
var healthDecayBands = []band{
	{from: 65, min: 4, max: 6},
	{from: 50, min: 3, max: 5},
	{from: 40, min: 2, max: 4},
	{from: 30, min: 1, max: 2},
}

var livingCostBands = []band{
	{from: 65, min: 800, max: 1200},
	{from: 40, min: 400, max: 700},
	{from: 30, min: 300, max: 500},
	{from: 20, min: 50, max: 200},
}

func bandFor(bands []band, age int) (band, bool) {
	for _, b := range bands {
		if age >= b.from {
			return b, true
		}
	}
	return band{}, false
}

// HealthDecayRange returns the decay range for an age; ok is false under 30.
func HealthDecayRange(age int) (lo, hi int, ok bool) {
	b, ok := bandFor(healthDecayBands, age)
	return b.min, b.max, ok
}

// LivingCostRange returns the yearly cost range for an age; ok is false under 20.
func LivingCostRange(age int) (lo, hi int, ok bool) {
	b, ok := bandFor(livingCostBands, age)
	return b.min, b.max, ok
}

// AdvanceAge adds 3 to 5 years and counts the completed cycle.
func AdvanceAge(p *state.PlayerState, src rng.Source) int {
	delta := rng.IntRange(src, 3, 5)
	p.Age += delta
	p.PhaseCount++
	return delta
}

// ApplyAging applies health decay, living costs, fame income and merch income,
// in that order, for the player's current age.
func ApplyAging(p *state.PlayerState, src rng.Source) AgingReport {
	report := AgingReport{ToAge: p.Age, Changes: make(ChangeRecord)}
	startMoney := p.Resource(state.ResourceMoney)
	startHealth := p.Resource(state.ResourceHealth)

	if lo, hi, ok := HealthDecayRange(p.Age); ok {
		decay := float64(rng.IntRange(src, lo, hi))
		report.adjust(p, state.ResourceHealth, -decay)
		report.Items = append(report.Items, AgingItem{
			Kind:   AgingHealthDecay,
			Amount: decay,
			Text:   fmt.Sprintf("Health declined by %s.", display.Number(decay)),
		})
	}

	if lo, hi, ok := LivingCostRange(p.Age); ok {
		cost := float64(rng.IntRange(src, lo, hi))
		report.adjust(p, state.ResourceMoney, -cost)
		report.Items = append(report.Items, AgingItem{
			Kind:   AgingLivingCosts,
			Amount: cost,
			Text:   fmt.Sprintf("Living costs: %s.", display.Money(-cost)),
		})
	}

	if fame := p.Resource(state.ResourceFame); fame > 0 {
		income := math.Floor(fame * 10)
		report.adjust(p, state.ResourceMoney, income)
		report.Items = append(report.Items, AgingItem{
			Kind:   AgingFameIncome,
			Amount: income,
			Text:   fmt.Sprintf("Royalties and appearances: +%s.", display.Money(income)),
		})
	}

	if audience := p.Resource(state.ResourceAudience); audience > 100 {
		income := math.Floor(audience * 0.05)
		report.adjust(p, state.ResourceMoney, income)
		report.Items = append(report.Items, AgingItem{
			Kind:   AgingMerchIncome,
			Amount: income,
			Text:   fmt.Sprintf("Merchandise sales: +%s.", display.Money(income)),
		})
	}

	report.NetMoney = p.Resource(state.ResourceMoney) - startMoney
	report.NetHealth = p.Resource(state.ResourceHealth) - startHealth
	return report
}

func (r *AgingReport) adjust(p *state.PlayerState, field string, delta float64) {
	oldVal := p.Resource(field)
	p.SetResource(field, oldVal+delta)
	r.Changes.record(field, oldVal, p.Resource(field))
}
