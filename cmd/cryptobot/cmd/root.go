package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/config"
)

var rootCmd = &cobra.Command{
	Use:   "cryptobot",
	Short: "A simulated crypto trading dashboard",
	Long: `Cryptobot runs a simulated crypto market with a paper balance.

It provides:
  - A random-walk price feed with a bounded history window
  - Manual buy and sell against a simulated cash/asset balance
  - An auto-trading bot (momentum, rsi or macd) that can be toggled on and off
  - An HTTP/JSON and WebSocket API for a dashboard UI
  - Optional CSV or SQLite export of trades and equity

No real exchange is contacted and no real money is involved.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv(envFile)
	},
}

var (
	cfgFile string
	envFile string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the config")
}

// loadEnv loads a dotenv file. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
