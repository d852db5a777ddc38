package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/strategies"
)

// Config is the complete service configuration.
type Config struct {
	Session   SessionConfig   `json:"session" yaml:"session"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Strategy  StrategyConfig  `json:"strategy" yaml:"strategy"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
}

// SessionConfig holds the initial state of a trading session.
type SessionConfig struct {
	Symbol           string  `json:"symbol" yaml:"symbol"`
	InitialPrice     float64 `json:"initial_price" yaml:"initial_price"`
	InitialChangePct float64 `json:"initial_change_pct" yaml:"initial_change_pct"`
	InitialDirection string  `json:"initial_direction" yaml:"initial_direction"` // "up" or "down"
	Cash             float64 `json:"cash" yaml:"cash"`
	Asset            float64 `json:"asset" yaml:"asset"`
	HistorySize      int     `json:"history_size" yaml:"history_size"`
	SeedPoints       int     `json:"seed_points" yaml:"seed_points"`
	SeedBase         float64 `json:"seed_base" yaml:"seed_base"`
	SeedSpread       float64 `json:"seed_spread" yaml:"seed_spread"`
	SeedSpacing      string  `json:"seed_spacing" yaml:"seed_spacing"`   // e.g. "3m"
	TickInterval     string  `json:"tick_interval" yaml:"tick_interval"` // e.g. "3s"
	AutoStart        bool    `json:"auto_start" yaml:"auto_start"`
	RandomSeed       int64   `json:"random_seed" yaml:"random_seed"` // 0 seeds from the clock
}

// GeneratorConfig bounds the random walk.
type GeneratorConfig struct {
	MaxStepPct float64 `json:"max_step_pct" yaml:"max_step_pct"`
	Floor      float64 `json:"floor" yaml:"floor"`
}

// StrategyConfig selects and tunes the auto-trading policy.
type StrategyConfig struct {
	Name             string  `json:"name" yaml:"name"`
	TradeAmount      float64 `json:"trade_amount" yaml:"trade_amount"`
	BuyThresholdPct  float64 `json:"buy_threshold_pct" yaml:"buy_threshold_pct"`
	SellThresholdPct float64 `json:"sell_threshold_pct" yaml:"sell_threshold_pct"`
	MinCash          float64 `json:"min_cash" yaml:"min_cash"`
	MinAsset         float64 `json:"min_asset" yaml:"min_asset"`
	RSIPeriod        int     `json:"rsi_period" yaml:"rsi_period"`
	RSIOversold      float64 `json:"rsi_oversold" yaml:"rsi_oversold"`
	RSIOverbought    float64 `json:"rsi_overbought" yaml:"rsi_overbought"`
	MACDFast         int     `json:"macd_fast" yaml:"macd_fast"`
	MACDSlow         int     `json:"macd_slow" yaml:"macd_slow"`
	MACDSignal       int     `json:"macd_signal" yaml:"macd_signal"`
}

// ServerConfig contains HTTP API parameters.
type ServerConfig struct {
	Addr            string   `json:"addr" yaml:"addr"`
	Mode            string   `json:"mode" yaml:"mode"` // gin mode: debug, release, test
	CORSOrigins     []string `json:"cors_origins" yaml:"cors_origins"`
	RateLimit       float64  `json:"rate_limit" yaml:"rate_limit"` // command requests per second
	RateBurst       int      `json:"rate_burst" yaml:"rate_burst"`
	ShutdownTimeout string   `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// JournalConfig contains trade export parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	Breaker    bool   `json:"breaker" yaml:"breaker"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

// LoadFromFile loads configuration from a YAML or JSON file. Values not set
// in the file keep their defaults, and ${VAR} references are expanded from
// the environment.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML, falling back to JSON, on top of Default().
func Parse(data []byte) (*Config, error) {
	expanded := []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(expanded, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	s := c.Session
	if s.Symbol == "" {
		return fmt.Errorf("session.symbol is required")
	}
	if s.InitialPrice <= 0 {
		return fmt.Errorf("session.initial_price must be positive")
	}
	if s.InitialChangePct < 0 {
		return fmt.Errorf("session.initial_change_pct must be >= 0")
	}
	var dir market.Direction
	if err := dir.UnmarshalText([]byte(s.InitialDirection)); err != nil {
		return fmt.Errorf("session.initial_direction: %w", err)
	}
	if s.Cash < 0 || s.Asset < 0 {
		return fmt.Errorf("session.cash and session.asset must be >= 0")
	}
	if s.HistorySize <= 0 {
		return fmt.Errorf("session.history_size must be positive")
	}
	if s.SeedPoints < 0 {
		return fmt.Errorf("session.seed_points must be >= 0")
	}
	if _, err := c.SeedSpacing(); err != nil {
		return fmt.Errorf("session.seed_spacing: %w", err)
	}
	if d, err := c.TickInterval(); err != nil {
		return fmt.Errorf("session.tick_interval: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("session.tick_interval must be positive")
	}

	if c.Generator.MaxStepPct <= 0 || c.Generator.MaxStepPct >= 100 {
		return fmt.Errorf("generator.max_step_pct must be between 0 and 100")
	}
	if c.Generator.Floor <= 0 {
		return fmt.Errorf("generator.floor must be positive")
	}

	if err := c.StrategyParams().Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if c.Strategy.Name != "" {
		if _, err := strategies.New(c.Strategy.Name, c.StrategyParams()); err != nil {
			return fmt.Errorf("strategy: %w", err)
		}
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("server.rate_limit and server.rate_burst must be >= 0")
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Symbol:           "BTC",
			InitialPrice:     29876.54,
			InitialChangePct: 2.34,
			InitialDirection: "up",
			Cash:             10000,
			Asset:            0.5,
			HistorySize:      market.DefaultHistorySize,
			SeedPoints:       20,
			SeedBase:         30000,
			SeedSpread:       1000,
			SeedSpacing:      "3m",
			TickInterval:     "3s",
		},
		Generator: GeneratorConfig{
			MaxStepPct: market.DefaultMaxStepPct,
			Floor:      market.DefaultFloor,
		},
		Strategy: StrategyConfig{
			Name:             strategies.DefaultStrategy,
			TradeAmount:      0.01,
			BuyThresholdPct:  0.5,
			SellThresholdPct: 0.5,
			MinCash:          1000,
			MinAsset:         0.01,
			RSIPeriod:        14,
			RSIOversold:      30,
			RSIOverbought:    70,
			MACDFast:         12,
			MACDSlow:         26,
			MACDSignal:       9,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			CORSOrigins:     []string{"*"},
			RateLimit:       5,
			RateBurst:       10,
			ShutdownTimeout: "5s",
		},
		Journal: JournalConfig{
			Type:    "none",
			Breaker: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// TickInterval parses session.tick_interval.
func (c *Config) TickInterval() (time.Duration, error) {
	return parseDuration(c.Session.TickInterval)
}

// SeedSpacing parses session.seed_spacing.
func (c *Config) SeedSpacing() (time.Duration, error) {
	return parseDuration(c.Session.SeedSpacing)
}

// ShutdownTimeout parses server.shutdown_timeout.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	return parseDuration(c.Server.ShutdownTimeout)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
