package state

import (
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/jwebster45206/musilife/pkg/rng"
)

// Phase is the current step of the turn cycle.
type Phase string

const (
	PhaseDecision    Phase = "decision"
	PhaseOpportunity Phase = "opportunity"
)

// StartingAge is the age of every new character.
const StartingAge = 15

// LogEntry is a single line of the career log.
type LogEntry struct {
	Age  int    `json:"age"`
	Text string `json:"text"`
}

// PlayerState is the mutable state of one game session.
type PlayerState struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Age               int                `json:"age"`
	Phase             Phase              `json:"phase"`
	Stats             map[string]int     `json:"stats"`
	Resources         map[string]float64 `json:"resources"`
	Flags             map[string]bool    `json:"flags,omitempty"`
	UsedQuestions     map[string]bool    `json:"used_questions,omitempty"`
	UsedOpportunities map[string]bool    `json:"used_opportunities,omitempty"`
	PhaseCount        int                `json:"phase_count"`
	GameLog           []LogEntry         `json:"game_log"`
	Initialized       bool               `json:"initialized"`
}

// New returns a player in the pristine, pre-initialization state.
func New() *PlayerState {
	ps := &PlayerState{}
	ps.Reset()
	return ps
}

// Reset returns the player to the pristine state.
func (ps *PlayerState) Reset() {
	stats := make(map[string]int, len(StatNames))
	for _, name := range StatNames {
		stats[name] = 0
	}
	*ps = PlayerState{
		Age:   StartingAge,
		Phase: PhaseDecision,
		Stats: stats,
		Resources: map[string]float64{
			ResourceMotivation: 70,
			ResourceHappiness:  65,
			ResourceAudience:   0,
			ResourceFame:       0,
			ResourceMoney:      200,
			ResourceHealth:     95,
		},
		Flags:             make(map[string]bool),
		UsedQuestions:     make(map[string]bool),
		UsedOpportunities: make(map[string]bool),
		GameLog:           make([]LogEntry, 0),
	}
}

// Initialize starts a new career for name with freshly rolled stats and resources.
func (ps *PlayerState) Initialize(name string, src rng.Source) {
	ps.Reset()
	ps.ID = uuid.New()
	ps.Name = name
	ps.Stats = RollStats(src)
	ps.Resources = RollResources(src)
	ps.Initialized = true
	ps.AddLogEntry(name + " begins their musical journey...")
}

// Reroll draws new starting stats and resources, leaving age, flags and log alone.
func (ps *PlayerState) Reroll(src rng.Source) {
	ps.Stats = RollStats(src)
	ps.Resources = RollResources(src)
}

// RollStats draws each stat uniformly from [0, 10].
func RollStats(src rng.Source) map[string]int {
	stats := make(map[string]int, len(StatNames))
	for _, name := range StatNames {
		stats[name] = rng.IntRange(src, 0, 10)
	}
	return stats
}

// RollResources draws the starting resources.
func RollResources(src rng.Source) map[string]float64 {
	return map[string]float64{
		ResourceMotivation: float64(rng.IntRange(src, 60, 80)),
		ResourceHappiness:  float64(rng.IntRange(src, 40, 90)),
		ResourceAudience:   0,
		ResourceFame:       0,
		ResourceMoney:      float64(rng.IntRange(src, 0, 400)),
		ResourceHealth:     float64(rng.IntRange(src, 90, 100)),
	}
}

// AddLogEntry appends text to the log at the current age.
func (ps *PlayerState) AddLogEntry(text string) {
	ps.GameLog = append(ps.GameLog, LogEntry{Age: ps.Age, Text: text})
}

// RecentLog returns up to n entries, most recent first. n <= 0 returns all of them.
func (ps *PlayerState) RecentLog(n int) []LogEntry {
	out := slices.Clone(ps.GameLog)
	slices.Reverse(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Stat returns the named stat, 0 if unknown.
func (ps *PlayerState) Stat(name string) int {
	return ps.Stats[name]
}

// Resource returns the named resource, 0 if unknown.
func (ps *PlayerState) Resource(name string) float64 {
	return ps.Resources[name]
}

// SetStat stores a stat after clamping it.
func (ps *PlayerState) SetStat(name string, v int) {
	if ps.Stats == nil {
		ps.Stats = make(map[string]int)
	}
	ps.Stats[name] = ClampStat(v)
}

// SetResource stores a resource after applying its floor rule.
func (ps *PlayerState) SetResource(name string, v float64) {
	if ps.Resources == nil {
		ps.Resources = make(map[string]float64)
	}
	ps.Resources[name] = ClampResource(name, v)
}

func (ps *PlayerState) HasFlag(flag string) bool {
	return ps.Flags[flag]
}

// AddFlag sets flag and reports whether it was new.
func (ps *PlayerState) AddFlag(flag string) bool {
	if ps.Flags == nil {
		ps.Flags = make(map[string]bool)
	}
	if ps.Flags[flag] {
		return false
	}
	ps.Flags[flag] = true
	return true
}

// SortedFlags returns the flags in lexical order.
func (ps *PlayerState) SortedFlags() []string {
	return slices.Sorted(maps.Keys(ps.Flags))
}

// Clone returns a deep copy.
func (ps *PlayerState) Clone() *PlayerState {
	if ps == nil {
		return nil
	}
	c := *ps
	c.Stats = maps.Clone(ps.Stats)
	c.Resources = maps.Clone(ps.Resources)
	c.Flags = maps.Clone(ps.Flags)
	c.UsedQuestions = maps.Clone(ps.UsedQuestions)
	c.UsedOpportunities = maps.Clone(ps.UsedOpportunities)
	c.GameLog = slices.Clone(ps.GameLog)
	return &c
}
