package state

// Stat bounds. Every stat is clamped to this inclusive range after a mutation.
const (
	StatMin = -5
	StatMax = 25
)

// Stat names
const (
	StatCharisma     = "charisma"
	StatVocals       = "vocals"
	StatRhythm       = "rhythm"
	StatCreativity   = "creativity"
	StatLuck         = "luck"
	StatSkill        = "skill"
	StatIntelligence = "intelligence"
)

// Resource names
const (
	ResourceMotivation = "motivation"
	ResourceHappiness  = "happiness"
	ResourceAudience   = "audience"
	ResourceFame       = "fame"
	ResourceMoney      = "money"
	ResourceHealth     = "health"
)

// StatNames lists the stats in display order.
var StatNames = []string{
	StatCharisma,
	StatVocals,
	StatRhythm,
	StatCreativity,
	StatLuck,
	StatSkill,
	StatIntelligence,
}

// ResourceNames lists the resources in display order.
var ResourceNames = []string{
	ResourceMotivation,
	ResourceHappiness,
	ResourceAudience,
	ResourceFame,
	ResourceMoney,
	ResourceHealth,
}

var (
	statSet     = toSet(StatNames)
	resourceSet = toSet(ResourceNames)
)

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// IsStat reports whether name is one of the seven stats.
func IsStat(name string) bool {
	return statSet[name]
}

// IsResource reports whether name is one of the six resources.
func IsResource(name string) bool {
	return resourceSet[name]
}

// ClampStat limits v to [StatMin, StatMax].
func ClampStat(v int) int {
	return min(max(v, StatMin), StatMax)
}

// ClampResource applies the floor rule for a resource: money is unbounded,
// everything else is floored at zero.
func ClampResource(name string, v float64) float64 {
	if name == ResourceMoney {
		return v
	}
	return max(v, 0)
}
