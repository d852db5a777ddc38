package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/session"
	"github.com/rustyeddy/cryptobot/strategies"
)

// StrategyParams converts the strategy section.
func (c *Config) StrategyParams() strategies.Params {
	s := c.Strategy
	return strategies.Params{
		TradeAmount:      decimal.NewFromFloat(s.TradeAmount),
		BuyThresholdPct:  s.BuyThresholdPct,
		SellThresholdPct: s.SellThresholdPct,
		MinCash:          decimal.NewFromFloat(s.MinCash),
		MinAsset:         decimal.NewFromFloat(s.MinAsset),
		RSIPeriod:        s.RSIPeriod,
		RSIOversold:      s.RSIOversold,
		RSIOverbought:    s.RSIOverbought,
		MACDFast:         s.MACDFast,
		MACDSlow:         s.MACDSlow,
		MACDSignal:       s.MACDSignal,
	}
}

// SessionConfig converts the session, generator and strategy sections.
func (c *Config) SessionConfig() (session.Config, error) {
	tick, err := c.TickInterval()
	if err != nil {
		return session.Config{}, fmt.Errorf("session.tick_interval: %w", err)
	}
	spacing, err := c.SeedSpacing()
	if err != nil {
		return session.Config{}, fmt.Errorf("session.seed_spacing: %w", err)
	}
	var dir market.Direction
	if err := dir.UnmarshalText([]byte(c.Session.InitialDirection)); err != nil {
		return session.Config{}, fmt.Errorf("session.initial_direction: %w", err)
	}

	s := c.Session
	return session.Config{
		Symbol:           s.Symbol,
		InitialPrice:     s.InitialPrice,
		InitialChangePct: s.InitialChangePct,
		InitialDirection: dir,
		Balance:          ledger.NewBalance(s.Cash, s.Asset),
		HistorySize:      s.HistorySize,
		Seed: market.SeedConfig{
			Points:  s.SeedPoints,
			Base:    s.SeedBase,
			Spread:  s.SeedSpread,
			Spacing: spacing,
		},
		TickInterval: tick,
		Walk: market.WalkConfig{
			MaxStepPct: c.Generator.MaxStepPct,
			Floor:      c.Generator.Floor,
		},
		Strategy:   c.Strategy.Name,
		Params:     c.StrategyParams(),
		RandomSeed: s.RandomSeed,
	}, nil
}

// OpenJournal opens the configured export sink. Type "none" (or empty)
// yields journal.Nop. When Breaker is set the sink is wrapped in a circuit
// breaker.
func (c *Config) OpenJournal(log *logrus.Entry) (journal.Journal, error) {
	var (
		j   journal.Journal
		err error
	)

	switch c.Journal.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		j, err = journal.NewCSV(c.Journal.TradesFile, c.Journal.EquityFile)
	case "sqlite":
		j, err = journal.NewSQLite(c.Journal.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", c.Journal.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s journal: %w", c.Journal.Type, err)
	}

	if c.Journal.Breaker {
		return journal.NewBreaker(j, journal.DefaultBreakerSettings(), log), nil
	}
	return j, nil
}

// ShutdownTimeoutOr returns server.shutdown_timeout, or def when unset.
func (c *Config) ShutdownTimeoutOr(def time.Duration) time.Duration {
	d, err := c.ShutdownTimeout()
	if err != nil || d <= 0 {
		return def
	}
	return d
}
