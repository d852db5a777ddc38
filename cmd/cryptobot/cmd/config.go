package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/config"
	"github.com/rustyeddy/cryptobot/strategies"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write or check a configuration file",
	Long: `Write a default configuration file, or check one before serving.

Examples:
  cryptobot config init cryptobot.yaml
  cryptobot config validate cryptobot.yaml
  cryptobot -c cryptobot.yaml config validate`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration (YAML for .yaml/.yml, JSON otherwise)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Load a configuration file and report what it sets up",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigValidate,
}

var configInitForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configValidateCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "cryptobot.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := config.Default().SaveToFile(path); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	fmt.Printf("start the dashboard with: cryptobot serve -c %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no config file: pass a path or --config")
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}

	s := cfg.Session
	fmt.Printf("%s: ok\n", path)
	fmt.Printf("  market    %s from $%.2f, tick %s, history %d\n", s.Symbol, s.InitialPrice, s.TickInterval, s.HistorySize)
	fmt.Printf("  balance   $%.2f cash, %g %s\n", s.Cash, s.Asset, s.Symbol)
	fmt.Printf("  strategy  %s (available: %s)\n", cfg.Strategy.Name, strings.Join(strategies.Names(), ", "))
	fmt.Printf("  server    %s\n", cfg.Server.Addr)
	fmt.Printf("  journal   %s\n", cfg.Journal.Type)
	return nil
}
