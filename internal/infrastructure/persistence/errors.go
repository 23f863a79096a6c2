package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation reports whether err comes from a unique constraint,
// for both the postgres (SQLSTATE 23505) and sqlite drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// violatesColumn reports whether a unique violation names table.column.
// Postgres reports the index name (idx_users_email), sqlite the column (users.email).
func violatesColumn(err error, table, column string) bool {
	msg := err.Error()
	return strings.Contains(msg, table+"_"+column) || strings.Contains(msg, table+"."+column)
}
