package session

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
)

// Step runs one tick immediately, whether or not the session is running.
func (s *Session) Step() Snapshot {
	s.mu.Lock()
	s.tickLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// tickLocked advances the price, records it, then lets the strategy trade.
func (s *Session) tickLocked() {
	prev := s.price
	mv := s.gen.Next(prev)
	now := s.now()

	s.price = mv.Price
	s.changePct = mv.ChangePct
	s.direction = mv.Direction
	s.history.Append(market.PricePoint{Time: now, Price: mv.Price})
	s.ticks++
	s.seq++
	s.updated = now

	t := market.Tick{Time: now, Previous: prev, Move: mv}
	if o, ok := s.strat.Evaluate(t, s.balance); ok {
		tr, err := s.executeLocked(o.Side, o.Amount, journal.Auto, now)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"side":   o.Side.String(),
				"amount": o.Amount.String(),
			}).Debug("auto trade rejected")
		} else {
			s.log.WithFields(logrus.Fields{
				"id":     tr.ID,
				"side":   tr.Side.String(),
				"amount": tr.Amount.String(),
				"price":  tr.Price.String(),
				"reason": o.Reason,
			}).Info("auto trade")
		}
	}

	price := s.priceDecimal()
	err := s.sink.RecordEquity(journal.EquitySnapshot{
		Time:  now,
		Price: price,
		Cash:  s.balance.Cash,
		Asset: s.balance.Asset,
		Value: s.balance.Value(price),
	})
	if err != nil {
		s.log.WithError(err).Warn("record equity")
	}
}

// executeLocked applies a trade at the current price. A rejected trade
// changes nothing.
func (s *Session) executeLocked(side ledger.Side, amount decimal.Decimal, src journal.Source, at time.Time) (journal.Trade, error) {
	price := s.priceDecimal()
	next, err := ledger.Apply(s.balance, side, amount, price)
	if err != nil {
		return journal.Trade{}, fmt.Errorf("%s %s @ %s: %w", side, amount, price, err)
	}
	s.balance = next
	s.seq++

	tr := s.trades.Append(journal.NewTrade(side, amount, price, at, src))
	if err := s.sink.RecordTrade(tr); err != nil {
		s.log.WithError(err).WithField("id", tr.ID).Warn("record trade")
	}
	return tr, nil
}

func (s *Session) priceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(s.price)
}
