package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/tripledger/internal/apperr"
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry  = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// classify translates a driver error into the apperr taxonomy. Lock
// conflicts become ErrConflict, constraint violations ErrBadRequest, and
// sql.ErrNoRows ErrNotFound; anything else is wrapped as an internal failure.
func classify(err error, action string, args ...any) error {
	what := fmt.Sprintf(action, args...)

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("%s", what)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return apperr.Conflict("%s: %v", what, err)
		case sqlite3.SQLITE_CONSTRAINT:
			return apperr.BadRequest("%s: %v", what, err)
		}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDeadlock, mysqlLockWaitTimeout:
			return apperr.Conflict("%s: %v", what, err)
		case mysqlDuplicateEntry, mysqlRowIsReferenced, mysqlNoReferencedRow:
			return apperr.BadRequest("%s: %v", what, err)
		}
	}

	return fmt.Errorf("failed to %s: %w", what, err)
}

// expectOne returns a NotFound error unless exactly one row was affected.
func expectOne(res sql.Result, what string, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("%s not found: %s", what, id)
	}
	return nil
}
