package id

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUniqueAndSorted(t *testing.T) {
	t.Parallel()

	ids := make([]string, 0, 500)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		s := New()
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
		ids = append(ids, s)
	}

	assert.True(t, sort.StringsAreSorted(ids))
}

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return ts }

	a := NewGenerator(42, clock)
	b := NewGenerator(42, clock)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.New(), b.New())
	}

	// same millisecond, still increasing
	x, y := a.New(), a.New()
	assert.Less(t, x, y)
}

func TestConcurrentUse(t *testing.T) {
	t.Parallel()

	g := NewGenerator(0, nil)
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = map[string]bool{}
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				s := g.New()
				mu.Lock()
				seen[s] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 400)
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewGenerator(1, nil).At(ts)

	got, err := Time(s)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))

	_, err = Time("not-a-ulid")
	assert.Error(t, err)
}
