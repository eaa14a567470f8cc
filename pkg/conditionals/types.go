package conditionals

import "github.com/jwebster45206/musilife/pkg/state"

// Requires is the requirement predicate attached to content items and options.
// A nil Requires always passes.
type Requires struct {
	MinStats     map[string]float64 `json:"minStats,omitempty" yaml:"minStats,omitempty"`         // Stat or resource minimums
	Flags        []string           `json:"flags,omitempty" yaml:"flags,omitempty"`               // All must be set
	ExcludeFlags []string           `json:"excludeFlags,omitempty" yaml:"excludeFlags,omitempty"` // None may be set
}

// PlayerView provides the minimal interface needed to evaluate requirements.
type PlayerView interface {
	Stat(name string) int
	Resource(name string) float64
	HasFlag(flag string) bool
}

// IsEmpty reports whether the predicate has no conditions.
func (r *Requires) IsEmpty() bool {
	return r == nil || (len(r.MinStats) == 0 && len(r.Flags) == 0 && len(r.ExcludeFlags) == 0)
}

// Evaluate checks every condition in req against the player.
func Evaluate(req *Requires, view PlayerView) bool {
	if req == nil {
		return true
	}

	// Resource names compare against resources, anything else against stats.
	// Unknown keys read as 0.
	for name, minimum := range req.MinStats {
		var actual float64
		if state.IsResource(name) {
			actual = view.Resource(name)
		} else {
			actual = float64(view.Stat(name))
		}
		if actual < minimum {
			return false
		}
	}

	for _, flag := range req.Flags {
		if !view.HasFlag(flag) {
			return false
		}
	}

	for _, flag := range req.ExcludeFlags {
		if view.HasFlag(flag) {
			return false
		}
	}

	return true
}

// Failing returns a readable description of each unmet condition, in a stable order.
// It is used to explain why an option is locked.
func Failing(req *Requires, view PlayerView) []string {
	if req == nil {
		return nil
	}
	var reasons []string
	for _, name := range sortedKeys(req.MinStats) {
		minimum := req.MinStats[name]
		var actual float64
		if state.IsResource(name) {
			actual = view.Resource(name)
		} else {
			actual = float64(view.Stat(name))
		}
		if actual < minimum {
			reasons = append(reasons, formatMinimum(name, minimum))
		}
	}
	for _, flag := range req.Flags {
		if !view.HasFlag(flag) {
			reasons = append(reasons, "requires "+flag)
		}
	}
	for _, flag := range req.ExcludeFlags {
		if view.HasFlag(flag) {
			reasons = append(reasons, "blocked by "+flag)
		}
	}
	return reasons
}
