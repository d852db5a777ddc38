package market

import (
	"math"
	"math/rand"
	"time"
)

const (
	// DefaultMaxStepPct bounds a single step to +/- 2% of the current price.
	DefaultMaxStepPct = 2.0
	// DefaultFloor is the lowest price the walk will ever report.
	DefaultFloor = 10000.0
)

// Generator produces the next price from the current one.
type Generator interface {
	Next(current float64) Move
}

// WalkConfig parameterizes the bounded random walk.
type WalkConfig struct {
	MaxStepPct float64
	Floor      float64
}

func DefaultWalkConfig() WalkConfig {
	return WalkConfig{
		MaxStepPct: DefaultMaxStepPct,
		Floor:      DefaultFloor,
	}
}

// Walker is a uniform bounded random walk with a hard price floor.
// It is not safe for concurrent use; the session serializes calls.
type Walker struct {
	cfg WalkConfig
	rng *rand.Rand
}

// NewWalker returns a walker drawing from rng. A nil rng is replaced with a
// time-seeded source; pass a seeded one for reproducible output.
func NewWalker(cfg WalkConfig, rng *rand.Rand) *Walker {
	if cfg.MaxStepPct <= 0 {
		cfg.MaxStepPct = DefaultMaxStepPct
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Walker{cfg: cfg, rng: rng}
}

// Next draws pct uniformly from [-MaxStepPct, +MaxStepPct), applies it and
// clamps the result to the floor. ChangePct is measured against the clamped
// price, so a clamp can hide most of a downward move.
func (w *Walker) Next(current float64) Move {
	pct := (w.rng.Float64() - 0.5) * 2 * w.cfg.MaxStepPct
	return Step(current, pct, w.cfg.Floor)
}

// Step applies a percentage move to current and clamps at floor.
func Step(current, pct, floor float64) Move {
	raw := current * (1 + pct/100)
	price := math.Max(raw, floor)

	change := 0.0
	if current != 0 {
		change = math.Abs((price-current)/current) * 100
	}

	dir := Up
	if price < current {
		dir = Down
	}

	return Move{
		Price:     price,
		ChangePct: change,
		Direction: dir,
	}
}
