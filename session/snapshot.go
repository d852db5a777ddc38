package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
)

// Snapshot is a read-only copy of the session state. Nothing in it aliases
// session internals.
type Snapshot struct {
	Symbol    string              `json:"symbol"`
	Price     float64             `json:"price"`
	ChangePct float64             `json:"change_pct"`
	Direction market.Direction    `json:"direction"`
	History   []market.PricePoint `json:"history"`
	Balance   ledger.Balance      `json:"balance"`
	Value     decimal.Decimal     `json:"portfolio_value"`
	Trades    []journal.Trade     `json:"trades"`
	Running   bool                `json:"running"`
	Ticks     uint64              `json:"ticks"`
	Seq       uint64              `json:"seq"`
	Strategy  string              `json:"strategy"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Symbol:    s.cfg.Symbol,
		Price:     s.price,
		ChangePct: s.changePct,
		Direction: s.direction,
		History:   s.history.Points(),
		Balance:   s.balance,
		Value:     s.balance.Value(s.priceDecimal()),
		Trades:    s.trades.Trades(),
		Running:   s.running,
		Ticks:     s.ticks,
		Seq:       s.seq,
		Strategy:  s.strat.Name(),
		UpdatedAt: s.updated,
	}
}

// Trades returns the trade log, oldest first, or newest first when
// newestFirst is set. The stored order never changes.
func (s *Session) Trades(newestFirst bool) []journal.Trade {
	if newestFirst {
		return s.trades.Reversed()
	}
	return s.trades.Trades()
}

// BotStatus describes the auto-trader.
type BotStatus struct {
	Running          bool            `json:"running"`
	Strategy         string          `json:"strategy"`
	TickInterval     string          `json:"tick_interval"`
	TradeAmount      decimal.Decimal `json:"trade_amount"`
	BuyThresholdPct  float64         `json:"buy_threshold_pct"`
	SellThresholdPct float64         `json:"sell_threshold_pct"`
	Ticks            uint64          `json:"ticks"`
}

func (s *Session) Bot() BotStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BotStatus{
		Running:          s.running,
		Strategy:         s.strat.Name(),
		TickInterval:     s.cfg.TickInterval.String(),
		TradeAmount:      s.cfg.Params.TradeAmount,
		BuyThresholdPct:  s.cfg.Params.BuyThresholdPct,
		SellThresholdPct: s.cfg.Params.SellThresholdPct,
		Ticks:            s.ticks,
	}
}
