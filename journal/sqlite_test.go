package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/cryptobot/ledger"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	return j, path
}

func testTrade(id string, side ledger.Side, amount string, price float64, at time.Time, src Source) Trade {
	tr := NewTrade(side, decimal.RequireFromString(amount), decimal.NewFromFloat(price), at, src)
	tr.ID = id
	return tr
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','equity')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["equity"])
}

func TestSQLiteTradeRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	want := testTrade("T1", ledger.Buy, "0.01", 29876.54, ts, Auto)
	require.NoError(t, j.RecordTrade(want))

	got, err := j.GetTrade("T1")
	require.NoError(t, err)

	assert.Equal(t, "T1", got.ID)
	assert.Equal(t, ledger.Buy, got.Side)
	assert.Equal(t, Auto, got.Source)
	assert.True(t, want.Amount.Equal(got.Amount))
	assert.True(t, want.Price.Equal(got.Price))
	assert.Equal(t, "298.7654", got.Total.String())
	assert.True(t, ts.Equal(got.Time))
}

func TestSQLiteGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	_, err := j.GetTrade("nope")
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestSQLiteListTrades(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	// inserted out of order on purpose
	require.NoError(t, j.RecordTrade(testTrade("C", ledger.Sell, "0.2", 31000, base.Add(2*time.Hour), Manual)))
	require.NoError(t, j.RecordTrade(testTrade("A", ledger.Buy, "0.01", 30000, base, Auto)))
	require.NoError(t, j.RecordTrade(testTrade("B", ledger.Buy, "0.01", 30500, base.Add(time.Hour), Auto)))

	all, err := j.ListTrades()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{all[0].ID, all[1].ID, all[2].ID})

	between, err := j.ListTradesBetween(base.Add(30*time.Minute), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, between, 1)
	assert.Equal(t, "B", between[0].ID)
}

func TestSQLiteRecordEquity(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	price := decimal.NewFromFloat(30000)
	b := ledger.NewBalance(9700, 0.51)
	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: ts, Price: price, Cash: b.Cash, Asset: b.Asset, Value: b.Value(price)}))

	eq, err := j.ListEquity()
	require.NoError(t, err)
	require.Len(t, eq, 1)
	assert.True(t, ts.Equal(eq[0].Time))
	assert.Equal(t, "25000", eq[0].Value.String())
	assert.Equal(t, "0.51", eq[0].Asset.String())
}
