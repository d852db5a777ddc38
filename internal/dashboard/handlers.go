package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/cryptobot/ledger"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.opts.Version,
	})
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) price(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"symbol":     snap.Symbol,
		"price":      snap.Price,
		"change_pct": snap.ChangePct,
		"direction":  snap.Direction,
		"updated_at": snap.UpdatedAt,
	})
}

func (s *Server) history(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"symbol": snap.Symbol,
		"points": snap.History,
	})
}

func (s *Server) balance(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"cash":            snap.Balance.Cash,
		"asset":           snap.Balance.Asset,
		"price":           snap.Price,
		"portfolio_value": snap.Value,
	})
}

func (s *Server) trades(c *gin.Context) {
	var newestFirst bool
	switch strings.ToLower(c.DefaultQuery("order", "desc")) {
	case "desc":
		newestFirst = true
	case "asc":
	default:
		s.fail(c, http.StatusBadRequest, errors.New("order must be 'asc' or 'desc'"))
		return
	}

	trades := s.ctrl.Trades(newestFirst)
	c.JSON(http.StatusOK, gin.H{
		"count":  len(trades),
		"trades": trades,
	})
}

func (s *Server) bot(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctrl.Bot())
}

func (s *Server) toggle(c *gin.Context) {
	running := s.ctrl.Toggle(s.baseCtx)
	s.log.WithField("running", running).Info("bot toggled")
	c.JSON(http.StatusOK, s.ctrl.Bot())
}

// orderRequest accepts the amount as a JSON string or number.
type orderRequest struct {
	Amount json.RawMessage `json:"amount"`
}

func (s *Server) order(side ledger.Side) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, http.StatusBadRequest, err)
			return
		}

		amount, err := ledger.ParseAmount(strings.Trim(string(req.Amount), `"`))
		if err != nil {
			s.fail(c, http.StatusUnprocessableEntity, err)
			return
		}

		tr, err := s.ctrl.Manual(side, amount)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ledger.ErrRejected) {
				status = http.StatusUnprocessableEntity
			}
			s.fail(c, status, err)
			return
		}

		snap := s.ctrl.Snapshot()
		c.JSON(http.StatusCreated, gin.H{
			"trade":   tr,
			"balance": snap.Balance,
		})
	}
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	id := requestID(c)
	entry := s.log.WithError(err).WithFields(logrus.Fields{
		"request_id": id,
		"status":     status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	c.JSON(status, gin.H{
		"error":      err.Error(),
		"request_id": id,
	})
}
