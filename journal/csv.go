package journal

import (
	"encoding/csv"
	"os"
	"time"
)

type CSV struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

var (
	csvTradeHeader  = []string{"trade_id", "side", "amount", "price", "total", "time", "source"}
	csvEquityHeader = []string{"time", "price", "cash", "asset", "value"}
)

// NewCSV truncates or creates both files and writes their headers.
func NewCSV(tradesPath, equityPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	j := &CSV{
		trades: csv.NewWriter(tf),
		equity: csv.NewWriter(ef),
		tf:     tf,
		ef:     ef,
	}
	if err := j.write(j.trades, csvTradeHeader); err != nil {
		j.Close()
		return nil, err
	}
	if err := j.write(j.equity, csvEquityHeader); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) RecordTrade(t Trade) error {
	return j.write(j.trades, []string{
		t.ID,
		t.Side.String(),
		t.Amount.String(),
		t.Price.String(),
		t.Total.String(),
		t.Time.UTC().Format(time.RFC3339Nano),
		string(t.Source),
	})
}

func (j *CSV) RecordEquity(e EquitySnapshot) error {
	return j.write(j.equity, []string{
		e.Time.UTC().Format(time.RFC3339Nano),
		e.Price.String(),
		e.Cash.String(),
		e.Asset.String(),
		e.Value.String(),
	})
}

func (j *CSV) write(w *csv.Writer, rec []string) error {
	if err := w.Write(rec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) Close() error {
	j.trades.Flush()
	j.equity.Flush()

	err := j.trades.Error()
	if e := j.equity.Error(); err == nil {
		err = e
	}
	if e := j.tf.Close(); err == nil {
		err = e
	}
	if e := j.ef.Close(); err == nil {
		err = e
	}
	return err
}
