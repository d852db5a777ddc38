package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query an exported trade journal",
	Long: `Query trades exported to a SQLite journal by a previous session.

Subcommands:
  trade  - Get details of a specific trade by ID
  list   - List trades, optionally for a single day

Examples:
  cryptobot journal trade 01HZX3...
  cryptobot journal list
  cryptobot journal list --day 2024-01-15`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var (
	journalDBPath string
	journalDay    string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalListCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./cryptobot.sqlite", "path to SQLite journal DB")
	journalListCmd.Flags().StringVar(&journalDay, "day", "", "only trades on this day (YYYY-MM-DD, local time)")
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	t, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Println(journal.FormatTrade(t, journalSymbol()))
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	var trades []journal.Trade
	if journalDay == "" {
		trades, err = j.ListTrades()
	} else {
		start, end, derr := dayBounds(time.Local, journalDay)
		if derr != nil {
			return fmt.Errorf("date: %w", derr)
		}
		trades, err = j.ListTradesBetween(start, end)
	}
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	if len(trades) == 0 {
		fmt.Println("no trades")
		return nil
	}
	fmt.Println(journal.FormatTrades(trades, journalSymbol()))
	return nil
}

// journalSymbol labels amounts with the configured symbol, or not at all
// when the config cannot be read.
func journalSymbol() string {
	cfg, err := loadConfig()
	if err != nil {
		return ""
	}
	return cfg.Session.Symbol
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
