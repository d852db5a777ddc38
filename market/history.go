package market

import "sync"

// DefaultHistorySize is the number of points kept for the chart.
const DefaultHistorySize = 50

// History is a bounded, chronologically ordered window of price points.
// Appending past capacity evicts the oldest point.
type History struct {
	mu     sync.RWMutex
	cap    int
	points []PricePoint
}

// NewHistory creates a window holding at most capacity points. Seed points
// are appended in order, so only the newest capacity of them survive.
func NewHistory(capacity int, seed ...PricePoint) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	h := &History{
		cap:    capacity,
		points: make([]PricePoint, 0, capacity),
	}
	for _, p := range seed {
		h.appendLocked(p)
	}
	return h
}

func (h *History) Append(p PricePoint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.appendLocked(p)
}

func (h *History) appendLocked(p PricePoint) {
	if len(h.points) == h.cap {
		copy(h.points, h.points[1:])
		h.points = h.points[:h.cap-1]
	}
	h.points = append(h.points, p)
}

// Points returns a copy, oldest first.
func (h *History) Points() []PricePoint {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]PricePoint, len(h.points))
	copy(out, h.points)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.points)
}

func (h *History) Cap() int { return h.cap }

// Last returns the newest point.
func (h *History) Last() (PricePoint, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.points) == 0 {
		return PricePoint{}, false
	}
	return h.points[len(h.points)-1], true
}
