package strategies

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
)

// RSI buys when the market is oversold and sells when it is overbought.
type RSI struct {
	p   Params
	rsi *indicators.RSI
}

func NewRSI(p Params) (*RSI, error) {
	if p.RSIPeriod <= 0 {
		return nil, errors.New("rsi period must be > 0")
	}
	if p.RSIOversold >= p.RSIOverbought {
		return nil, errors.New("rsi oversold level must be below overbought level")
	}
	return &RSI{p: p, rsi: indicators.NewRSI(p.RSIPeriod)}, nil
}

func (s *RSI) Name() string { return "rsi" }

func (s *RSI) Reset() { s.rsi.Reset() }

func (s *RSI) Evaluate(t market.Tick, b ledger.Balance) (Order, bool) {
	s.rsi.Update(t.Price)
	if !s.rsi.Ready() {
		return Order{}, false
	}

	v := s.rsi.Value()
	switch {
	case v <= s.p.RSIOversold && s.p.canBuy(b):
		return s.p.buy(fmt.Sprintf("%s %.1f oversold", s.rsi.Name(), v)), true
	case v >= s.p.RSIOverbought && s.p.canSell(b):
		return s.p.sell(fmt.Sprintf("%s %.1f overbought", s.rsi.Name(), v)), true
	}
	return Order{}, false
}
