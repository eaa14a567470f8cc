package content

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/jwebster45206/musilife/pkg/state"
	"gopkg.in/yaml.v3"
)

// TargetKind tags what an effect modifies.
type TargetKind int

const (
	TargetStat TargetKind = iota + 1
	TargetResource
)

// Target names the field an effect changes. It is resolved once when content
// is decoded, so the engine never classifies field names at apply time.
type Target struct {
	Kind TargetKind
	Name string
}

func Stat(name string) Target     { return Target{Kind: TargetStat, Name: name} }
func Resource(name string) Target { return Target{Kind: TargetResource, Name: name} }

func (t Target) String() string {
	switch t.Kind {
	case TargetStat:
		return "stat:" + t.Name
	case TargetResource:
		return "resource:" + t.Name
	default:
		return "unknown:" + t.Name
	}
}

// Effect is a single numeric delta.
type Effect struct {
	Target Target
	Delta  float64
}

// Effects is a resolved effect delta: numeric changes plus flags to add.
//
// On the wire it is a mapping of field name to delta, with an optional
// "resources" sub-mapping and an optional "flags" list:
//
//	{"vocals": 2, "money": -50, "resources": {"fame": 1}, "flags": ["busker"]}
//
// Unrecognized keys are dropped.
type Effects struct {
	Changes []Effect
	Flags   []string
}

// IsEmpty reports whether applying e would do nothing.
func (e Effects) IsEmpty() bool {
	return len(e.Changes) == 0 && len(e.Flags) == 0
}

// NewEffects builds Effects from a wire-form mapping.
func NewEffects(raw map[string]any) (Effects, error) {
	var e Effects
	if len(raw) == 0 {
		return e, nil
	}

	nested := map[string]any{}
	if r, ok := raw["resources"]; ok && r != nil {
		m, ok := r.(map[string]any)
		if !ok {
			return e, fmt.Errorf("effects: resources must be a mapping, got %T", r)
		}
		nested = m
	}

	for _, name := range state.StatNames {
		v, ok := raw[name]
		if !ok {
			continue
		}
		delta, err := toFloat(name, v)
		if err != nil {
			return e, err
		}
		e.Changes = append(e.Changes, Effect{Target: Stat(name), Delta: delta})
	}

	for _, name := range state.ResourceNames {
		if v, ok := raw[name]; ok {
			delta, err := toFloat(name, v)
			if err != nil {
				return e, err
			}
			e.Changes = append(e.Changes, Effect{Target: Resource(name), Delta: delta})
		}
		if v, ok := nested[name]; ok {
			delta, err := toFloat("resources."+name, v)
			if err != nil {
				return e, err
			}
			e.Changes = append(e.Changes, Effect{Target: Resource(name), Delta: delta})
		}
	}

	if f, ok := raw["flags"]; ok && f != nil {
		list, ok := f.([]any)
		if !ok {
			return e, fmt.Errorf("effects: flags must be a list, got %T", f)
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return e, fmt.Errorf("effects: flag %v is not a string", item)
			}
			if !slices.Contains(e.Flags, s) {
				e.Flags = append(e.Flags, s)
			}
		}
	}

	return e, nil
}

func toFloat(key string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("effects: %s must be a number, got %T", key, v)
	}
}

// Wire returns the mapping form of e. Repeated targets are summed.
func (e Effects) Wire() map[string]any {
	out := make(map[string]any)
	sums := make(map[string]float64)
	for _, c := range e.Changes {
		sums[c.Target.Name] += c.Delta
	}
	for _, name := range slices.Sorted(maps.Keys(sums)) {
		out[name] = sums[name]
	}
	if len(e.Flags) > 0 {
		out["flags"] = slices.Clone(e.Flags)
	}
	return out
}

func (e Effects) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Wire())
}

func (e *Effects) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("effects: %w", err)
	}
	parsed, err := NewEffects(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e Effects) MarshalYAML() (any, error) {
	return e.Wire(), nil
}

func (e *Effects) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("effects: %w", err)
	}
	parsed, err := NewEffects(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
