package market

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(i int) PricePoint {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return PricePoint{Time: t0.Add(time.Duration(i) * 3 * time.Second), Price: 20000 + float64(i)}
}

func TestHistoryKeepsMostRecent(t *testing.T) {
	t.Parallel()

	h := NewHistory(50)
	for i := 0; i < 137; i++ {
		h.Append(point(i))
		if i >= 50 {
			assert.Equal(t, 50, h.Len())
		}
	}

	pts := h.Points()
	require.Len(t, pts, 50)
	for i, p := range pts {
		assert.Equal(t, point(87+i), p)
	}

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, point(136), last)
}

func TestHistorySeedIsTrimmed(t *testing.T) {
	t.Parallel()

	seed := make([]PricePoint, 0, 8)
	for i := 0; i < 8; i++ {
		seed = append(seed, point(i))
	}

	h := NewHistory(5, seed...)
	assert.Equal(t, 5, h.Len())
	assert.Equal(t, point(3), h.Points()[0])
}

func TestHistoryPointsIsACopy(t *testing.T) {
	t.Parallel()

	h := NewHistory(3, point(0))
	pts := h.Points()
	pts[0].Price = -1

	assert.Equal(t, point(0), h.Points()[0])
}

func TestHistoryEmptyAndDefaultCap(t *testing.T) {
	t.Parallel()

	h := NewHistory(0)
	assert.Equal(t, DefaultHistorySize, h.Cap())
	_, ok := h.Last()
	assert.False(t, ok)
}

func TestSeedHistory(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := DefaultSeedConfig()
	pts := SeedHistory(cfg, now, rand.New(rand.NewSource(1)))

	require.Len(t, pts, 20)
	assert.Equal(t, now.Add(-60*time.Minute), pts[0].Time)
	assert.Equal(t, now.Add(-3*time.Minute), pts[19].Time)
	for i, p := range pts {
		assert.InDelta(t, cfg.Base, p.Price, cfg.Spread/2)
		if i > 0 {
			assert.True(t, p.Time.After(pts[i-1].Time))
		}
	}

	assert.Nil(t, SeedHistory(SeedConfig{}, now, nil))
}
