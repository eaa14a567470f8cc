package rng

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"
)

// Source is the single randomness source of a game session.
// Float64 returns a value in [0, 1).
type Source interface {
	Float64() float64
}

// New returns a deterministic PCG generator for the given seed.
// A zero seed is replaced by the current time.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// #nosec G404 -- game simulation, not security
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", seed, salt)
	return h.Sum64()
}

// IntRange returns a uniform integer in the inclusive range [min, max].
func IntRange(src Source, min, max int) int {
	if max <= min {
		return min
	}
	n := int(math.Floor(src.Float64() * float64(max-min+1)))
	// Guard against sources that return exactly 1.
	if n > max-min {
		n = max - min
	}
	return min + n
}

// Index returns a uniform index in [0, n). n must be positive.
func Index(src Source, n int) int {
	return IntRange(src, 0, n-1)
}

// Sequence replays a fixed list of values, cycling when exhausted.
// It is meant for tests that need to script every draw.
type Sequence struct {
	values []float64
	pos    int
}

// NewSequence creates a Sequence. With no values it always returns 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Draws reports how many values have been consumed.
func (s *Sequence) Draws() int {
	return s.pos
}
