package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/cryptobot/internal/dashboard"
	"github.com/rustyeddy/cryptobot/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the trading session and the dashboard API",
	Long: `Start a fresh trading session and serve it over HTTP and WebSocket.

State is never restored: every start begins from the configured initial
price and balance. Stop with Ctrl-C.

Example:
  cryptobot serve -c cryptobot.yaml --addr :9090 --auto-start`,
	RunE: runServe,
}

var (
	serveAddr      string
	serveAutoStart bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveAutoStart, "auto-start", false, "start the trading bot immediately")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveAutoStart {
		cfg.Session.AutoStart = true
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	sess, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.WithError(err).Warn("close session")
		}
	}()

	srv := dashboard.NewServer(sess, dashboard.Options{
		Addr:            cfg.Server.Addr,
		Mode:            cfg.Server.Mode,
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimit:       cfg.Server.RateLimit,
		RateBurst:       cfg.Server.RateBurst,
		ShutdownTimeout: cfg.ShutdownTimeoutOr(0),
		Version:         version,
	}, logrus.NewEntry(logger))
	sess.SetListener(srv.Hub())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if cfg.Session.AutoStart {
		sess.Start(gctx)
	}

	logger.WithField("addr", cfg.Server.Addr).Infof("cryptobot %s serving %s", version, cfg.Session.Symbol)
	return g.Wait()
}
