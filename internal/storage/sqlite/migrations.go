package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Amounts are stored as decimal strings in base units.
const schema = `
CREATE TABLE IF NOT EXISTS funds (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    owner TEXT NOT NULL,
    threshold INTEGER NOT NULL,
    member_submission INTEGER NOT NULL DEFAULT 0,
    asset TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fund_members (
    fund_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    address TEXT NOT NULL,
    PRIMARY KEY (fund_id, position),
    UNIQUE (fund_id, address),
    FOREIGN KEY (fund_id) REFERENCES funds(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transactions (
    fund_id TEXT NOT NULL,
    id INTEGER NOT NULL,
    submitter TEXT NOT NULL,
    target TEXT NOT NULL,
    amount TEXT NOT NULL,
    payload BLOB,
    executed INTEGER NOT NULL DEFAULT 0,
    approval_count INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    executed_at INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (fund_id, id),
    FOREIGN KEY (fund_id) REFERENCES funds(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transaction_approvals (
    fund_id TEXT NOT NULL,
    tx_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (fund_id, tx_id, position),
    FOREIGN KEY (fund_id, tx_id) REFERENCES transactions(fund_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS assets (
    name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS balances (
    asset TEXT NOT NULL,
    account TEXT NOT NULL,
    amount TEXT NOT NULL,
    PRIMARY KEY (asset, account),
    FOREIGN KEY (asset) REFERENCES assets(name)
);

CREATE TABLE IF NOT EXISTS allowances (
    asset TEXT NOT NULL,
    owner TEXT NOT NULL,
    spender TEXT NOT NULL,
    amount TEXT NOT NULL,
    PRIMARY KEY (asset, owner, spender),
    FOREIGN KEY (asset) REFERENCES assets(name)
);

CREATE INDEX IF NOT EXISTS idx_fund_members_fund_id ON fund_members(fund_id);
CREATE INDEX IF NOT EXISTS idx_transactions_fund_id ON transactions(fund_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
