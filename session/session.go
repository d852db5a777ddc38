// Package session owns the state of one simulated trading session: the
// price feed, the history window, the balance, the trade log and the
// auto-trading loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/strategies"
)

// Config is the initial state and tuning of a session.
type Config struct {
	Symbol           string
	InitialPrice     float64
	InitialChangePct float64
	InitialDirection market.Direction
	Balance          ledger.Balance
	HistorySize      int
	Seed             market.SeedConfig
	TickInterval     time.Duration
	Walk             market.WalkConfig
	Strategy         string
	Params           strategies.Params
	RandomSeed       int64
}

func DefaultConfig() Config {
	return Config{
		Symbol:           "BTC",
		InitialPrice:     29876.54,
		InitialChangePct: 2.34,
		InitialDirection: market.Up,
		Balance:          ledger.NewBalance(10000, 0.5),
		HistorySize:      market.DefaultHistorySize,
		Seed:             market.DefaultSeedConfig(),
		TickInterval:     3 * time.Second,
		Walk:             market.DefaultWalkConfig(),
		Strategy:         strategies.DefaultStrategy,
		Params:           strategies.DefaultParams(),
	}
}

func (c Config) validate() error {
	if c.InitialPrice <= 0 {
		return errors.New("initial price must be positive")
	}
	if c.TickInterval <= 0 {
		return errors.New("tick interval must be positive")
	}
	if c.Balance.Cash.IsNegative() || c.Balance.Asset.IsNegative() {
		return errors.New("initial balance must not be negative")
	}
	return nil
}

// Listener is notified after every tick, trade and start/stop. It is
// called outside the session lock, one call at a time, and never with a
// snapshot older than one it has already seen. A listener may read the
// session but must not start, stop or trade from inside OnUpdate.
type Listener interface {
	OnUpdate(Snapshot)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Snapshot)

func (f ListenerFunc) OnUpdate(s Snapshot) { f(s) }

type Session struct {
	mu sync.Mutex

	cfg   Config
	gen   market.Generator
	rng   *rand.Rand
	strat strategies.Strategy
	sink  journal.Journal
	now   func() time.Time
	log   *logrus.Entry
	newID func() string

	price     float64
	changePct float64
	direction market.Direction
	history   *market.History
	balance   ledger.Balance
	trades    *journal.Log
	ticks     uint64
	updated   time.Time
	running   bool
	// seq counts state changes; snapshots carry it so listeners see them in order.
	seq uint64

	// runMu serializes Start, Stop and Toggle.
	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	lmu      sync.RWMutex
	listener Listener

	// nmu serializes delivery; delivered is the last Seq handed to the listener.
	nmu       sync.Mutex
	delivered uint64
}

type Option func(*Session)

// WithGenerator replaces the random walk.
func WithGenerator(g market.Generator) Option {
	return func(s *Session) { s.gen = g }
}

// WithRand sets the randomness used for the seeded history and the default
// walk.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

func WithStrategy(st strategies.Strategy) Option {
	return func(s *Session) { s.strat = st }
}

// WithJournal sets the export sink. Trades and equity snapshots are written
// to it as they happen.
func WithJournal(j journal.Journal) Option {
	return func(s *Session) { s.sink = j }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(l *logrus.Entry) Option {
	return func(s *Session) { s.log = l }
}

func WithIDGenerator(f func() string) Option {
	return func(s *Session) { s.newID = f }
}

func WithListener(l Listener) Option {
	return func(s *Session) { s.listener = l }
}

// New builds a stopped session in its initial state.
func New(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}

	s := &Session{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	s.log = s.log.WithField("component", "session")
	if s.rng == nil {
		seed := cfg.RandomSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}
	if s.gen == nil {
		s.gen = market.NewWalker(cfg.Walk, s.rng)
	}
	if s.strat == nil {
		st, err := strategies.New(cfg.Strategy, cfg.Params)
		if err != nil {
			return nil, err
		}
		s.strat = st
	}
	if s.sink == nil {
		s.sink = journal.Nop{}
	}

	now := s.now()
	s.price = cfg.InitialPrice
	s.changePct = cfg.InitialChangePct
	s.direction = cfg.InitialDirection
	s.balance = cfg.Balance
	s.history = market.NewHistory(cfg.HistorySize, market.SeedHistory(cfg.Seed, now, s.rng)...)
	s.trades = journal.NewLog(s.newID)
	s.updated = now

	return s, nil
}

// SetListener replaces the update listener. nil disables notifications.
func (s *Session) SetListener(l Listener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listener = l
}

func (s *Session) notify(snap Snapshot) {
	s.lmu.RLock()
	l := s.listener
	s.lmu.RUnlock()
	if l == nil {
		return
	}

	s.nmu.Lock()
	defer s.nmu.Unlock()
	// a newer state already went out
	if snap.Seq <= s.delivered {
		return
	}
	s.delivered = snap.Seq
	l.OnUpdate(snap)
}

// Strategy returns the name of the active auto-trading strategy.
func (s *Session) Strategy() string {
	return s.strat.Name()
}

func (s *Session) Config() Config {
	return s.cfg
}
