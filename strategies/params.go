package strategies

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/cryptobot/ledger"
)

// Params are the knobs shared by all strategies. Cash and asset gates apply
// to every strategy; the indicator periods only to rsi and macd.
type Params struct {
	TradeAmount      decimal.Decimal
	BuyThresholdPct  float64
	SellThresholdPct float64
	MinCash          decimal.Decimal
	MinAsset         decimal.Decimal

	RSIPeriod     int
	RSIOversold   float64
	RSIOverbought float64

	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

func DefaultParams() Params {
	return Params{
		TradeAmount:      decimal.RequireFromString("0.01"),
		BuyThresholdPct:  0.5,
		SellThresholdPct: 0.5,
		MinCash:          decimal.NewFromInt(1000),
		MinAsset:         decimal.RequireFromString("0.01"),
		RSIPeriod:        14,
		RSIOversold:      30,
		RSIOverbought:    70,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
	}
}

func (p Params) Validate() error {
	if !p.TradeAmount.IsPositive() {
		return errors.New("trade amount must be > 0")
	}
	if p.BuyThresholdPct < 0 || p.SellThresholdPct < 0 {
		return errors.New("thresholds must be >= 0")
	}
	if p.MinCash.IsNegative() || p.MinAsset.IsNegative() {
		return errors.New("min cash and min asset must be >= 0")
	}
	return nil
}

// canBuy is the cash gate: strictly more than MinCash.
func (p Params) canBuy(b ledger.Balance) bool {
	return b.Cash.GreaterThan(p.MinCash)
}

// canSell is the asset gate: strictly more than MinAsset.
func (p Params) canSell(b ledger.Balance) bool {
	return b.Asset.GreaterThan(p.MinAsset)
}

func (p Params) buy(reason string) Order {
	return Order{Side: ledger.Buy, Amount: p.TradeAmount, Reason: reason}
}

func (p Params) sell(reason string) Order {
	return Order{Side: ledger.Sell, Amount: p.TradeAmount, Reason: reason}
}
