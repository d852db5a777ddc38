// Package strategies holds the auto-trading policies evaluated once per
// price tick.
package strategies

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
)

// Order is what a strategy asks the session to execute.
type Order struct {
	Side   ledger.Side
	Amount decimal.Decimal
	Reason string
}

// Strategy decides, per tick, whether to trade. Evaluate returns at most one
// order; false means hold.
type Strategy interface {
	Name() string
	Reset()
	Evaluate(t market.Tick, b ledger.Balance) (Order, bool)
}

// Factory builds a strategy from params.
type Factory func(Params) (Strategy, error)

const DefaultStrategy = "momentum"

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

func init() {
	Register("momentum", func(p Params) (Strategy, error) { return NewMomentum(p), nil })
	Register("rsi", func(p Params) (Strategy, error) { return NewRSI(p) })
	Register("macd", func(p Params) (Strategy, error) { return NewMACD(p) })
}

// Register adds or replaces a named factory.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[normalize(name)] = f
}

// New builds the named strategy. An empty name selects DefaultStrategy.
func New(name string, p Params) (Strategy, error) {
	if name == "" {
		name = DefaultStrategy
	}
	mu.RLock()
	f, ok := registry[normalize(name)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return f(p)
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
