// Package shared provides helpers used by more than one layer.
//
//nolint:revive // "shared" is an intentional package name for cross-cutting helpers.
package shared

import "strings"

// sqliteConflictMarkers are substrings of SQLite concurrency errors that
// warrant a retry. modernc.org/sqlite reports them only through the message.
var sqliteConflictMarkers = []string{"SQLITE_BUSY", "SQLITE_LOCKED", "database is locked", "database table is locked"}

// IsSQLiteConflictError reports whether err is a SQLite lock contention error.
func IsSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, m := range sqliteConflictMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
