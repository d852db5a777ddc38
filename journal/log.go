package journal

import (
	"sync"

	"github.com/rustyeddy/cryptobot/internal/id"
)

// Log is the append-only trade history. Stored order is insertion order,
// which is chronological since trades are appended as they execute.
type Log struct {
	mu     sync.RWMutex
	newID  func() string
	trades []Trade
}

// NewLog returns an empty log. A nil newID uses ULIDs.
func NewLog(newID func() string) *Log {
	if newID == nil {
		newID = id.New
	}
	return &Log{newID: newID}
}

// Append stores t, assigning an ID when it has none, and returns the stored
// trade.
func (l *Log) Append(t Trade) Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.ID == "" {
		t.ID = l.newID()
	}
	l.trades = append(l.trades, t)
	return t
}

// Trades returns a copy, oldest first.
func (l *Log) Trades() []Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Reversed returns a copy, newest first.
func (l *Log) Reversed() []Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.trades)
	out := make([]Trade, n)
	for i, t := range l.trades {
		out[n-1-i] = t
	}
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades)
}
