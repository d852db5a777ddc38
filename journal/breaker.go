package journal

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerSettings tunes the circuit around an export sink.
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// Breaker guards a Journal with a circuit breaker. While the circuit is
// open writes fail fast with gobreaker.ErrOpenState instead of reaching the
// sink.
type Breaker struct {
	next Journal
	cb   *gobreaker.CircuitBreaker
	log  *logrus.Entry
}

var _ Journal = (*Breaker)(nil)

func NewBreaker(next Journal, s BreakerSettings, log *logrus.Entry) *Breaker {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	b := &Breaker{next: next, log: log}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "journal",
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < s.MinRequests {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("journal circuit state changed")
		},
	})
	return b
}

func (b *Breaker) RecordTrade(t Trade) error {
	return b.do(func() error { return b.next.RecordTrade(t) })
}

func (b *Breaker) RecordEquity(e EquitySnapshot) error {
	return b.do(func() error { return b.next.RecordEquity(e) })
}

// Close always reaches the underlying sink.
func (b *Breaker) Close() error {
	return b.next.Close()
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) do(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}
