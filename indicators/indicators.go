// Package indicators provides streaming technical indicators over tick
// prices.
package indicators

// Indicator computes a single streaming value from prices.
// It is deterministic: the same price sequence always yields the same value.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next price.
	Update(price float64)

	// Ready reports whether Value() is meaningful.
	Ready() bool

	// Value returns the current value, or 0 before Ready().
	Value() float64
}

var (
	_ Indicator = (*ExponentialMA)(nil)
	_ Indicator = (*RSI)(nil)
	_ Indicator = (*MACD)(nil)
)
