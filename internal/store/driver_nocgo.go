//go:build !cgo

package store

import (
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// dsn builds a modernc.org/sqlite connection string with the same
// behavior as the cgo driver: case-sensitive LIKE, WAL journaling,
// and a 5s busy timeout.
func dsn(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=case_sensitive_like(1)"
}
