package sqlstore

import (
	"database/sql"
	"fmt"
)

// Money columns hold integer minor units (cents). Running totals are only
// changed with in-row increments so they stay exact.
//
// participants.join_seq numbers a group's roster in the order participants
// were added; created_at only has second resolution.
//
// Foreign keys from expenses, splits and settlements to participants have no
// ON DELETE action: a referenced participant cannot be removed. Group
// deletion removes children explicitly, in dependency order.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS trip_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    currency TEXT NOT NULL,
    created_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    user_id TEXT,
    name TEXT NOT NULL,
    email TEXT,
    total_paid INTEGER NOT NULL DEFAULT 0,
    total_owed INTEGER NOT NULL DEFAULT 0,
    join_seq INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES trip_groups(id)
)`,
	`CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    amount INTEGER NOT NULL,
    currency TEXT NOT NULL,
    category TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    expense_date TEXT NOT NULL,
    receipt_url TEXT NOT NULL DEFAULT '',
    split_type TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES trip_groups(id),
    FOREIGN KEY (payer_id) REFERENCES participants(id)
)`,
	`CREATE TABLE IF NOT EXISTS expense_splits (
    id TEXT PRIMARY KEY,
    expense_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    amount INTEGER NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (expense_id) REFERENCES expenses(id),
    FOREIGN KEY (participant_id) REFERENCES participants(id)
)`,
	`CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    amount INTEGER NOT NULL,
    currency TEXT NOT NULL,
    notes TEXT,
    settled_at INTEGER NOT NULL,
    created_by TEXT NOT NULL,
    convention TEXT NOT NULL DEFAULT 'discharge',
    FOREIGN KEY (group_id) REFERENCES trip_groups(id),
    FOREIGN KEY (from_id) REFERENCES participants(id),
    FOREIGN KEY (to_id) REFERENCES participants(id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_participants_group_id ON participants(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_participants_user_id ON participants(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_payer_id ON expenses(payer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expense_splits_expense_id ON expense_splits(expense_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expense_splits_participant_id ON expense_splits(participant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_settlements_group_id ON settlements(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_settlements_from_id ON settlements(from_id)`,
	`CREATE INDEX IF NOT EXISTS idx_settlements_to_id ON settlements(to_id)`,
}

// MySQL does not support CREATE INDEX IF NOT EXISTS; indexes are declared
// inline. InnoDB indexes foreign key columns on its own.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(36) PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    display_name VARCHAR(255) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS trip_groups (
    id VARCHAR(36) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    owner_id VARCHAR(36) NOT NULL,
    currency CHAR(3) NOT NULL,
    created_at BIGINT NOT NULL
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS participants (
    id VARCHAR(36) PRIMARY KEY,
    group_id VARCHAR(36) NOT NULL,
    user_id VARCHAR(36) NULL,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NULL,
    total_paid BIGINT NOT NULL DEFAULT 0,
    total_owed BIGINT NOT NULL DEFAULT 0,
    join_seq INT NOT NULL DEFAULT 0,
    created_at BIGINT NOT NULL,
    INDEX idx_participants_user_id (user_id),
    FOREIGN KEY (group_id) REFERENCES trip_groups(id)
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS expenses (
    id VARCHAR(36) PRIMARY KEY,
    group_id VARCHAR(36) NOT NULL,
    payer_id VARCHAR(36) NOT NULL,
    amount BIGINT NOT NULL,
    currency CHAR(3) NOT NULL,
    category VARCHAR(64) NOT NULL,
    description TEXT NOT NULL,
    expense_date VARCHAR(10) NOT NULL,
    receipt_url VARCHAR(1024) NOT NULL DEFAULT '',
    split_type VARCHAR(16) NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL,
    FOREIGN KEY (group_id) REFERENCES trip_groups(id),
    FOREIGN KEY (payer_id) REFERENCES participants(id)
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS expense_splits (
    id VARCHAR(36) PRIMARY KEY,
    expense_id VARCHAR(36) NOT NULL,
    participant_id VARCHAR(36) NOT NULL,
    amount BIGINT NOT NULL,
    position INT NOT NULL,
    FOREIGN KEY (expense_id) REFERENCES expenses(id),
    FOREIGN KEY (participant_id) REFERENCES participants(id)
) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS settlements (
    id VARCHAR(36) PRIMARY KEY,
    group_id VARCHAR(36) NOT NULL,
    from_id VARCHAR(36) NOT NULL,
    to_id VARCHAR(36) NOT NULL,
    amount BIGINT NOT NULL,
    currency CHAR(3) NOT NULL,
    notes TEXT NULL,
    settled_at BIGINT NOT NULL,
    created_by VARCHAR(36) NOT NULL,
    convention VARCHAR(16) NOT NULL DEFAULT 'discharge',
    FOREIGN KEY (group_id) REFERENCES trip_groups(id),
    FOREIGN KEY (from_id) REFERENCES participants(id),
    FOREIGN KEY (to_id) REFERENCES participants(id)
) ENGINE=InnoDB`,
}

// runMigrations executes the schema setup for the driver.
func runMigrations(db *sql.DB, driver string) error {
	var schema []string
	switch driver {
	case DriverSQLite:
		schema = sqliteSchema
	case DriverMySQL:
		schema = mysqlSchema
	default:
		return fmt.Errorf("no schema for driver %q", driver)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
