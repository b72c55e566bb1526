package db

import (
	"database/sql"
	"database/sql/driver"
	"errors"
)

type QueryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

// HasTable reports whether a table exists in the current schema. Bad
// connections are reported as false so callers can fall back to DDL.
func HasTable(q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRow(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)

	if err != nil {
		if errors.Is(err, driver.ErrBadConn) {
			return false
		}
		return false
	}
	return name.Valid && name.String != ""
}

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
