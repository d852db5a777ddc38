package session

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/ledger"
)

// ManualBuy buys amount at the current price. It is not gated by the
// strategy and works whether or not auto-trading is running. A rejected
// buy returns an error matching ledger.ErrRejected and leaves the session
// unchanged.
func (s *Session) ManualBuy(amount decimal.Decimal) (journal.Trade, error) {
	return s.Manual(ledger.Buy, amount)
}

// ManualSell is ManualBuy for the sell side.
func (s *Session) ManualSell(amount decimal.Decimal) (journal.Trade, error) {
	return s.Manual(ledger.Sell, amount)
}

func (s *Session) Manual(side ledger.Side, amount decimal.Decimal) (journal.Trade, error) {
	s.mu.Lock()
	tr, err := s.executeLocked(side, amount, journal.Manual, s.now())
	var snap Snapshot
	if err == nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).Debug("manual trade rejected")
		return journal.Trade{}, err
	}

	s.log.WithField("id", tr.ID).Infof("manual %s %s @ %s", tr.Side, tr.Amount, tr.Price)
	s.notify(snap)
	return tr, nil
}
