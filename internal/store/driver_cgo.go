//go:build cgo

package store

import (
	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

// dsn builds a mattn/go-sqlite3 connection string. LIKE is made case
// sensitive so substring search honors case, and WAL keeps readers
// unblocked during writes.
func dsn(path string) string {
	return path + "?_busy_timeout=5000&_journal_mode=WAL&_case_sensitive_like=true"
}
