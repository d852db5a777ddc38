package strategies

import (
	"fmt"

	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
)

// Momentum buys into up moves and sells into down moves larger than the
// configured thresholds. Conditions are disjoint by direction, so a tick
// yields at most one order.
type Momentum struct {
	p Params
}

func NewMomentum(p Params) *Momentum {
	return &Momentum{p: p}
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Reset() {}

func (m *Momentum) Evaluate(t market.Tick, b ledger.Balance) (Order, bool) {
	if t.Direction == market.Up && t.ChangePct > m.p.BuyThresholdPct && m.p.canBuy(b) {
		return m.p.buy(fmt.Sprintf("up %.2f%% > %.2f%%", t.ChangePct, m.p.BuyThresholdPct)), true
	}
	if t.Direction == market.Down && t.ChangePct > m.p.SellThresholdPct && m.p.canSell(b) {
		return m.p.sell(fmt.Sprintf("down %.2f%% > %.2f%%", t.ChangePct, m.p.SellThresholdPct)), true
	}
	return Order{}, false
}
