package market

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the sign of the last price move.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "up":
		*d = Up
	case "down":
		*d = Down
	default:
		return fmt.Errorf("unknown direction %q", string(b))
	}
	return nil
}

// PricePoint is one entry of the price history. Treat as immutable.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// Move is the result of advancing the price by one step.
type Move struct {
	Price     float64   `json:"price"`
	ChangePct float64   `json:"change_pct"`
	Direction Direction `json:"direction"`
}

// Tick is a Move stamped with time and the price it moved from. It is what
// strategies evaluate.
type Tick struct {
	Time     time.Time
	Previous float64
	Move
}

// Point returns the history entry for the tick.
func (t Tick) Point() PricePoint {
	return PricePoint{Time: t.Time, Price: t.Price}
}
