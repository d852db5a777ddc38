// Package id mints trade identifiers. IDs are ULIDs: unique, and sortable
// by creation time, so they double as a chronological key in exports.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator mints ULIDs from a monotonic entropy source. IDs from one
// generator within the same millisecond are strictly increasing.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewGenerator returns a generator whose entropy is seeded with seed, or
// from crypto/rand when seed is 0. A nil now uses time.Now.
func NewGenerator(seed int64, now func() time.Time) *Generator {
	if seed == 0 {
		_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
		now:     now,
	}
}

// New returns the next ID stamped with the generator's clock.
func (g *Generator) New() string {
	return g.At(g.now())
}

// At returns an ID stamped with t.
func (g *Generator) At(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), g.entropy)
	if err != nil {
		// entropy overflow within one millisecond, or a failing reader
		panic(err)
	}
	return id.String()
}

var std = NewGenerator(0, nil)

// New returns an ID from the package generator.
func New() string {
	return std.New()
}

// Time extracts the timestamp embedded in an ID.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()).UTC(), nil
}
