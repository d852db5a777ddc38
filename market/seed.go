package market

import (
	"math/rand"
	"time"
)

// SeedConfig describes the synthetic history shown before the first tick.
type SeedConfig struct {
	Points  int
	Base    float64
	Spread  float64
	Spacing time.Duration
}

func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Points:  20,
		Base:    30000,
		Spread:  1000,
		Spacing: 3 * time.Minute,
	}
}

// SeedHistory returns cfg.Points prices scattered around cfg.Base, spaced
// cfg.Spacing apart and ending one spacing before now.
func SeedHistory(cfg SeedConfig, now time.Time, rng *rand.Rand) []PricePoint {
	if cfg.Points <= 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}

	out := make([]PricePoint, 0, cfg.Points)
	for i := 0; i < cfg.Points; i++ {
		out = append(out, PricePoint{
			Time:  now.Add(-time.Duration(cfg.Points-i) * cfg.Spacing),
			Price: cfg.Base + (rng.Float64()-0.5)*cfg.Spread,
		})
	}
	return out
}
