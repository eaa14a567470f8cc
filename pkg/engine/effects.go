package engine

import (
	"math"

	"github.com/jwebster45206/musilife/pkg/content"
	"github.com/jwebster45206/musilife/pkg/display"
	"github.com/jwebster45206/musilife/pkg/state"
)

// Change is the before and after value of one field.
type Change struct {
	Old    float64 `json:"old"`
	New    float64 `json:"new"`
	Change float64 `json:"change"`
}

// ChangeRecord maps field names to their change. Fields touched with no net
// change are still present.
type ChangeRecord map[string]Change

// Fields returns the recorded field names, stats first, in display order.
func (cr ChangeRecord) Fields() []string {
	var fields []string
	for _, name := range state.StatNames {
		if _, ok := cr[name]; ok {
			fields = append(fields, name)
		}
	}
	for _, name := range state.ResourceNames {
		if _, ok := cr[name]; ok {
			fields = append(fields, name)
		}
	}
	return fields
}

// Deltas returns the changes in display order.
func (cr ChangeRecord) Deltas() []display.Delta {
	fields := cr.Fields()
	deltas := make([]display.Delta, 0, len(fields))
	for _, f := range fields {
		deltas = append(deltas, display.Delta{Field: f, Change: cr[f].Change})
	}
	return deltas
}

// String renders the non-zero changes, e.g. "vocals +2, money -$50".
func (cr ChangeRecord) String() string {
	return display.Deltas(cr.Deltas())
}

// Merge folds other into cr, keeping the earliest old value per field.
func (cr ChangeRecord) Merge(other ChangeRecord) {
	for field, c := range other {
		cr.record(field, c.Old, c.New)
	}
}

func (cr ChangeRecord) record(field string, oldVal, newVal float64) {
	if prev, ok := cr[field]; ok {
		oldVal = prev.Old
	}
	cr[field] = Change{Old: oldVal, New: newVal, Change: newVal - oldVal}
}

// ApplyEffects applies a resolved effect delta to the player.
// Stats are clamped to [-5, 25]; resources are floored at 0 except money.
// Flags are added with set semantics and do not appear in the record.
func ApplyEffects(p *state.PlayerState, effects content.Effects) ChangeRecord {
	changes := make(ChangeRecord, len(effects.Changes))

	for _, e := range effects.Changes {
		switch e.Target.Kind {
		case content.TargetStat:
			oldVal := p.Stat(e.Target.Name)
			p.SetStat(e.Target.Name, oldVal+int(math.Round(e.Delta)))
			changes.record(e.Target.Name, float64(oldVal), float64(p.Stat(e.Target.Name)))
		case content.TargetResource:
			oldVal := p.Resource(e.Target.Name)
			p.SetResource(e.Target.Name, oldVal+e.Delta)
			changes.record(e.Target.Name, oldVal, p.Resource(e.Target.Name))
		}
	}

	MergeFlags(p, effects.Flags)
	return changes
}

// MergeFlags adds every flag to the player. It returns the flags that were new.
func MergeFlags(p *state.PlayerState, flags []string) []string {
	var added []string
	for _, f := range flags {
		if p.AddFlag(f) {
			added = append(added, f)
		}
	}
	return added
}
