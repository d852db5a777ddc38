package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies Schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one writer; the tick loop and manual trades never write concurrently anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t Trade) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, side, amount, price, total, time, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Side.String(), t.Amount.String(), t.Price.String(),
		t.Total.String(), t.Time.UTC(), string(t.Source),
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, price, cash, asset, value)
		VALUES (?, ?, ?, ?, ?)`,
		e.Time.UTC(), e.Price.String(), e.Cash.String(), e.Asset.String(), e.Value.String(),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
