// Package dashboard exposes a session over HTTP/JSON and a WebSocket
// snapshot stream for a browser dashboard.
package dashboard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/session"
)

const (
	ServiceName         = "cryptobot"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// Controller is the part of a session the dashboard drives.
type Controller interface {
	Snapshot() session.Snapshot
	Trades(newestFirst bool) []journal.Trade
	Manual(side ledger.Side, amount decimal.Decimal) (journal.Trade, error)
	Toggle(ctx context.Context) bool
	Bot() session.BotStatus
}

var _ Controller = (*session.Session)(nil)

type Options struct {
	Addr            string
	Mode            string
	CORSOrigins     []string
	RateLimit       float64 // command requests per second, 0 disables
	RateBurst       int
	ShutdownTimeout time.Duration
	Version         string
}

type Server struct {
	ctrl    Controller
	opts    Options
	log     *logrus.Entry
	hub     *Hub
	limiter *rate.Limiter
	router  *gin.Engine

	// baseCtx outlives requests; the auto-trading loop is started with it.
	baseCtx context.Context
}

func NewServer(ctrl Controller, opts Options, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "dashboard")
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		ctrl:    ctrl,
		opts:    opts,
		log:     log,
		hub:     NewHub(log),
		baseCtx: context.Background(),
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	s.router = s.setupRoutes()
	return s
}

// Hub is the WebSocket broadcaster. Register it as the session listener.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() *gin.Engine {
	switch s.opts.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(s.opts.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(accessLogMiddleware(s.log))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(s.opts.CORSOrigins)))

	router.GET("/health", s.health)
	router.GET("/ws", s.serveWS)

	v1 := router.Group("/api/v1")
	v1.GET("/state", s.state)
	v1.GET("/price", s.price)
	v1.GET("/history", s.history)
	v1.GET("/balance", s.balance)
	v1.GET("/trades", s.trades)
	v1.GET("/bot", s.bot)

	cmd := v1.Group("", rateLimitMiddleware(s.limiter))
	cmd.POST("/orders/buy", s.order(ledger.Buy))
	cmd.POST("/orders/sell", s.order(ledger.Sell))
	cmd.POST("/bot/toggle", s.toggle)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.opts.Addr).Info("dashboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	s.hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("dashboard stopped")
	return nil
}
