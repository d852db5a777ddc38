package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/internal/logging"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/session"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the bot headless for a number of ticks",
	Long: `Run a session without the HTTP server, evaluating the auto-trading
strategy on every tick, and print a summary.

Examples:
  cryptobot simulate --ticks 1000
  cryptobot simulate --strategy rsi --seed 42 --trades`,
	RunE: runSimulate,
}

var (
	simTicks      int
	simStrategy   string
	simSeed       int64
	simShowTrades bool
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntVarP(&simTicks, "ticks", "n", 100, "number of ticks to run")
	simulateCmd.Flags().StringVarP(&simStrategy, "strategy", "s", "", "strategy name (overrides strategy.name)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed (overrides session.random_seed)")
	simulateCmd.Flags().BoolVar(&simShowTrades, "trades", false, "print every trade")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if simTicks <= 0 {
		return fmt.Errorf("--ticks must be positive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if simStrategy != "" {
		cfg.Strategy.Name = simStrategy
	}
	if simSeed != 0 {
		cfg.Session.RandomSeed = simSeed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// headless: keep the log quiet unless asked for debug output
	level := cfg.Logging.Level
	if level == "info" {
		level = "warn"
	}
	logger, err := logging.New(level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	sess, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	start := sess.Snapshot()
	var end session.Snapshot
	for i := 0; i < simTicks; i++ {
		end = sess.Step()
	}

	printSummary(os.Stdout, start, end)
	if simShowTrades && len(end.Trades) > 0 {
		fmt.Println()
		fmt.Println(journal.FormatTrades(end.Trades, end.Symbol))
	}
	return nil
}

type summary struct {
	Ticks      uint64
	StartPrice float64
	EndPrice   float64
	Buys       int
	Sells      int
	StartValue decimal.Decimal
	EndValue   decimal.Decimal
	PnL        decimal.Decimal
	Final      ledger.Balance
}

func summarize(start, end session.Snapshot) summary {
	s := summary{
		Ticks:      end.Ticks - start.Ticks,
		StartPrice: start.Price,
		EndPrice:   end.Price,
		StartValue: start.Value,
		EndValue:   end.Value,
		PnL:        end.Value.Sub(start.Value),
		Final:      end.Balance,
	}
	for _, t := range end.Trades[len(start.Trades):] {
		switch t.Side {
		case ledger.Buy:
			s.Buys++
		case ledger.Sell:
			s.Sells++
		}
	}
	return s
}

func printSummary(w io.Writer, start, end session.Snapshot) {
	s := summarize(start, end)
	fmt.Fprintf(w, "Simulation: %d ticks, strategy %s\n", s.Ticks, end.Strategy)
	fmt.Fprintf(w, "  Price:   $%.2f -> $%.2f\n", s.StartPrice, s.EndPrice)
	fmt.Fprintf(w, "  Trades:  %d (%d buy, %d sell)\n", s.Buys+s.Sells, s.Buys, s.Sells)
	fmt.Fprintf(w, "  Balance: $%s cash, %s %s\n", s.Final.Cash.StringFixed(2), s.Final.Asset.String(), end.Symbol)
	fmt.Fprintf(w, "  Value:   $%s -> $%s (P/L $%s)\n",
		s.StartValue.StringFixed(2), s.EndValue.StringFixed(2), s.PnL.StringFixed(2))
}
