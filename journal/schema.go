package journal

// Decimal columns are stored as TEXT so values read back exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	side TEXT NOT NULL,
	amount TEXT NOT NULL,
	price TEXT NOT NULL,
	total TEXT NOT NULL,
	time DATETIME NOT NULL,
	source TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	price TEXT NOT NULL,
	cash TEXT NOT NULL,
	asset TEXT NOT NULL,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
