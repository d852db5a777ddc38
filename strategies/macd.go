package strategies

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
)

// MACD trades when the MACD line crosses its signal line. Like an EMA
// cross it fires only on the transition, not while the lines stay crossed.
type MACD struct {
	p    Params
	macd *indicators.MACD

	// -1 => line below signal, 0 => unknown, +1 => line above signal
	prevRel int
}

func NewMACD(p Params) (*MACD, error) {
	if p.MACDFast <= 0 || p.MACDSlow <= 0 || p.MACDSignal <= 0 {
		return nil, errors.New("macd periods must be > 0")
	}
	if p.MACDFast >= p.MACDSlow {
		return nil, errors.New("macd requires fast period < slow period")
	}
	return &MACD{
		p:    p,
		macd: indicators.NewMACD(p.MACDFast, p.MACDSlow, p.MACDSignal),
	}, nil
}

func (s *MACD) Name() string { return "macd" }

func (s *MACD) Reset() {
	s.macd.Reset()
	s.prevRel = 0
}

func (s *MACD) Evaluate(t market.Tick, b ledger.Balance) (Order, bool) {
	s.macd.Update(t.Price)
	if !s.macd.Ready() {
		return Order{}, false
	}

	hist := s.macd.Value()
	rel := 0
	if hist > 0 {
		rel = +1
	} else if hist < 0 {
		rel = -1
	}

	prev := s.prevRel
	if rel != 0 {
		s.prevRel = rel
	}

	switch {
	case prev == -1 && rel == +1 && s.p.canBuy(b):
		return s.p.buy(fmt.Sprintf("%s crossed above signal", s.macd.Name())), true
	case prev == +1 && rel == -1 && s.p.canSell(b):
		return s.p.sell(fmt.Sprintf("%s crossed below signal", s.macd.Name())), true
	}
	return Order{}, false
}
