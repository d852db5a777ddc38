package dashboard

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/session"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestServer(t *testing.T, mutate func(*session.Config), opts Options) (*Server, *session.Session) {
	t.Helper()

	cfg := session.DefaultConfig()
	cfg.TickInterval = time.Hour
	if mutate != nil {
		mutate(&cfg)
	}
	sess, err := session.New(cfg,
		session.WithLogger(quietLog()),
		session.WithRand(rand.New(rand.NewSource(7))),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	opts.Mode = gin.TestMode
	srv := NewServer(sess, opts, quietLog())
	sess.SetListener(srv.Hub())
	return srv, sess
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil, Options{Version: "test"})

	w := do(t, srv.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.NotEmpty(t, w.Header().Get(RequestIDHeaderKey))
}

func TestRequestIDEchoed(t *testing.T) {
	srv, _ := newTestServer(t, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeaderKey, "abc-123")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeaderKey))
}

func TestReadEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil, Options{})
	h := srv.Handler()

	w := do(t, h, http.MethodGet, "/api/v1/price", "")
	require.Equal(t, http.StatusOK, w.Code)
	price := decode(t, w)
	assert.Equal(t, 29876.54, price["price"])
	assert.Equal(t, 2.34, price["change_pct"])
	assert.Equal(t, "up", price["direction"])

	w = do(t, h, http.MethodGet, "/api/v1/balance", "")
	require.Equal(t, http.StatusOK, w.Code)
	bal := decode(t, w)
	assert.Equal(t, "10000", bal["cash"])
	assert.Equal(t, "0.5", bal["asset"])
	assert.Equal(t, "24938.27", bal["portfolio_value"])

	w = do(t, h, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode(t, w)
	assert.Len(t, hist["points"], 20)

	w = do(t, h, http.MethodGet, "/api/v1/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "BTC", snap.Symbol)
	assert.False(t, snap.Running)

	w = do(t, h, http.MethodGet, "/api/v1/bot", "")
	require.Equal(t, http.StatusOK, w.Code)
	bot := decode(t, w)
	assert.Equal(t, false, bot["running"])
	assert.Equal(t, "momentum", bot["strategy"])
}

func TestBuyScenario(t *testing.T) {
	srv, sess := newTestServer(t, nil, Options{})

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/orders/buy", `{"amount":"0.01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	trade := body["trade"].(map[string]any)
	assert.Equal(t, "buy", trade["type"])
	assert.Equal(t, "manual", trade["source"])
	assert.Equal(t, "298.7654", trade["total"])
	bal := body["balance"].(map[string]any)
	assert.Equal(t, "9701.2346", bal["cash"])
	assert.Equal(t, "0.51", bal["asset"])

	assert.Len(t, sess.Snapshot().Trades, 1)
}

func TestSellRejected(t *testing.T) {
	srv, sess := newTestServer(t, func(c *session.Config) {
		c.Balance = ledger.NewBalance(10000, 0.005)
	}, Options{})
	before := sess.Snapshot()

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/orders/sell", `{"amount":0.01}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode(t, w)["error"], "insufficient asset")

	after := sess.Snapshot()
	assert.Equal(t, before.Balance, after.Balance)
	assert.Empty(t, after.Trades)
}

func TestOrderValidation(t *testing.T) {
	srv, sess := newTestServer(t, nil, Options{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", `amount=1`, http.StatusBadRequest},
		{"missing amount", `{}`, http.StatusUnprocessableEntity},
		{"text amount", `{"amount":"lots"}`, http.StatusUnprocessableEntity},
		{"zero", `{"amount":"0"}`, http.StatusUnprocessableEntity},
		{"negative", `{"amount":-1}`, http.StatusUnprocessableEntity},
		{"too expensive", `{"amount":"100"}`, http.StatusUnprocessableEntity},
		{"huge exponent", `{"amount":"1e999999999"}`, http.StatusUnprocessableEntity},
		{"huge exponent number", `{"amount":1e999999999}`, http.StatusUnprocessableEntity},
		{"tiny exponent", `{"amount":"1e-999999999"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv.Handler(), http.MethodPost, "/api/v1/orders/buy", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, sess.Snapshot().Trades)
}

func TestTradesOrder(t *testing.T) {
	srv, sess := newTestServer(t, nil, Options{})
	h := srv.Handler()

	for _, amt := range []string{"0.01", "0.02", "0.03"} {
		w := do(t, h, http.MethodPost, "/api/v1/orders/buy", `{"amount":"`+amt+`"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	amounts := func(path string) []string {
		w := do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Count  int `json:"count"`
			Trades []struct {
				Amount string `json:"amount"`
			} `json:"trades"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Count)
		out := make([]string, 0, len(body.Trades))
		for _, tr := range body.Trades {
			out = append(out, tr.Amount)
		}
		return out
	}

	assert.Equal(t, []string{"0.03", "0.02", "0.01"}, amounts("/api/v1/trades"))
	assert.Equal(t, []string{"0.01", "0.02", "0.03"}, amounts("/api/v1/trades?order=asc"))
	assert.Equal(t, "0.01", sess.Trades(false)[0].Amount.String())

	w := do(t, h, http.MethodGet, "/api/v1/trades?order=sideways", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggle(t *testing.T) {
	srv, sess := newTestServer(t, nil, Options{})
	h := srv.Handler()

	w := do(t, h, http.MethodPost, "/api/v1/bot/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["running"])
	assert.True(t, sess.Running())

	w = do(t, h, http.MethodPost, "/api/v1/bot/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["running"])
	assert.False(t, sess.Running())
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, nil, Options{RateLimit: 0.001, RateBurst: 2})
	h := srv.Handler()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, h, http.MethodPost, "/api/v1/orders/buy", `{"amount":"0.001"}`).Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	// reads are not limited
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/state", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, nil, Options{CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders/buy", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebSocketStream(t *testing.T) {
	srv, sess := newTestServer(t, nil, Options{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	read := func() Message {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var m Message
		require.NoError(t, conn.ReadJSON(&m))
		return m
	}

	first := read()
	assert.Equal(t, "snapshot", first.Type)
	assert.Equal(t, uint64(0), first.Data.Ticks)

	require.Eventually(t, func() bool { return srv.Hub().Len() == 1 }, time.Second, time.Millisecond)

	sess.Step()
	next := read()
	assert.Equal(t, uint64(1), next.Data.Ticks)

	_, err = sess.ManualBuy(decimal.RequireFromString("0.01"))
	require.NoError(t, err)
	afterTrade := read()
	assert.Len(t, afterTrade.Data.Trades, 1)
}

func TestHubDropsSlowClient(t *testing.T) {
	t.Parallel()

	h := NewHub(quietLog())
	c := &client{send: make(chan []byte, 1)}
	h.add(c)

	h.OnUpdate(session.Snapshot{})
	assert.Equal(t, 1, h.Len())

	// buffer full: dropped instead of blocking
	h.OnUpdate(session.Snapshot{})
	assert.Equal(t, 0, h.Len())

	_, open := <-c.send
	assert.True(t, open)
	_, open = <-c.send
	assert.False(t, open)
}
