package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/cryptobot/ledger"
)

var ErrTradeNotFound = errors.New("trade not found")

const tradeColumns = `trade_id, side, amount, price, total, time, source`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(r rowScanner) (Trade, error) {
	var (
		t                    Trade
		side, src            string
		amount, price, total string
	)
	if err := r.Scan(&t.ID, &side, &amount, &price, &total, &t.Time, &src); err != nil {
		return Trade{}, err
	}

	var err error
	if t.Side, err = ledger.ParseSide(side); err != nil {
		return Trade{}, err
	}
	if t.Source, err = ParseSource(src); err != nil {
		return Trade{}, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return Trade{}, fmt.Errorf("trade %s amount: %w", t.ID, err)
	}
	if t.Price, err = decimal.NewFromString(price); err != nil {
		return Trade{}, fmt.Errorf("trade %s price: %w", t.ID, err)
	}
	if t.Total, err = decimal.NewFromString(total); err != nil {
		return Trade{}, fmt.Errorf("trade %s total: %w", t.ID, err)
	}
	return t, nil
}

// GetTrade returns a single trade by ID.
func (j *SQLite) GetTrade(tradeID string) (Trade, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)

	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Trade{}, fmt.Errorf("%w: %q", ErrTradeNotFound, tradeID)
	}
	return t, err
}

// ListTrades returns every trade, oldest first.
func (j *SQLite) ListTrades() ([]Trade, error) {
	return j.queryTrades(`SELECT ` + tradeColumns + ` FROM trades ORDER BY time ASC, trade_id ASC`)
}

// ListTradesBetween returns trades whose time is within [start, end).
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]Trade, error) {
	return j.queryTrades(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, trade_id ASC`, start.UTC(), end.UTC())
}

func (j *SQLite) queryTrades(q string, args ...any) ([]Trade, error) {
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns equity snapshots, oldest first.
func (j *SQLite) ListEquity() ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`SELECT time, price, cash, asset, value FROM equity ORDER BY time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var (
			e                         EquitySnapshot
			price, cash, asset, value string
		)
		if err := rows.Scan(&e.Time, &price, &cash, &asset, &value); err != nil {
			return nil, err
		}
		for _, p := range []struct {
			dst *decimal.Decimal
			src string
		}{{&e.Price, price}, {&e.Cash, cash}, {&e.Asset, asset}, {&e.Value, value}} {
			if *p.dst, err = decimal.NewFromString(p.src); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
