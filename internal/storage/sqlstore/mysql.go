package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DriverMySQL is the database/sql name of the MySQL driver.
const DriverMySQL = "mysql"

// MySQLConfig holds the connection settings for a MySQL or MariaDB server.
type MySQLConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN formats the connection string for the go-sql-driver.
func (c MySQLConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, c.Port)
	cfg.DBName = c.Name
	cfg.ParseTime = true
	// Report matched rows so an in-place increment is always visible in
	// RowsAffected.
	cfg.ClientFoundRows = true
	cfg.Timeout = 5 * time.Second
	return cfg.FormatDSN()
}

// OpenMySQL connects to the configured server and runs migrations.
func OpenMySQL(ctx context.Context, c MySQLConfig) (*SQLStore, error) {
	db, err := sql.Open(DriverMySQL, c.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return newStore(db, DriverMySQL)
}
