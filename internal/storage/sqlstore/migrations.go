package sqlstore

import "database/sql"

// schema is valid for both SQLite and PostgreSQL. payments.bill_id has no
// foreign key: payments may reference bills that no longer exist.
const schema = `
CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    reference TEXT NOT NULL DEFAULT '',
    start_date TEXT NOT NULL,
    frequency_unit TEXT NOT NULL,
    frequency_interval INTEGER NOT NULL,
    auto_pay BOOLEAN NOT NULL DEFAULT FALSE,
    is_variable_amount BOOLEAN NOT NULL DEFAULT FALSE,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    paid_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bills_owner_id ON bills(owner_id);
CREATE INDEX IF NOT EXISTS idx_payments_owner_id ON payments(owner_id);
CREATE INDEX IF NOT EXISTS idx_payments_bill_id ON payments(bill_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
