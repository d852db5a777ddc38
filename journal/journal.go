// Package journal records executed trades. Log is the in-memory,
// chronological trade history of a session; Journal implementations are
// write-only export sinks for an audit trail outside the process.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/cryptobot/ledger"
)

// Source tells whether a trade was placed by the user or by the bot.
type Source string

const (
	Manual Source = "manual"
	Auto   Source = "auto"
)

func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(s)) {
	case Manual:
		return Manual, nil
	case Auto:
		return Auto, nil
	}
	return "", fmt.Errorf("unknown trade source %q", s)
}

// Trade is an executed buy or sell. Total is Amount*Price.
type Trade struct {
	ID     string          `json:"id"`
	Side   ledger.Side     `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	Total  decimal.Decimal `json:"total"`
	Time   time.Time       `json:"timestamp"`
	Source Source          `json:"source"`
}

// NewTrade fills Total from amount and price. ID is left for the Log.
func NewTrade(side ledger.Side, amount, price decimal.Decimal, at time.Time, src Source) Trade {
	return Trade{
		Side:   side,
		Amount: amount,
		Price:  price,
		Total:  amount.Mul(price),
		Time:   at,
		Source: src,
	}
}

// EquitySnapshot is the account state after a tick.
type EquitySnapshot struct {
	Time  time.Time
	Price decimal.Decimal
	Cash  decimal.Decimal
	Asset decimal.Decimal
	Value decimal.Decimal
}

type Journal interface {
	RecordTrade(Trade) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(Trade) error           { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
