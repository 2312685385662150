// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// services to distinguish between different failure scenarios without
// depending on a particular SQL driver.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert collides with the unique
// index on customers.email.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete cannot be performed because of
// dependent rows, such as a customer who still has orders.
var ErrConflict = errors.New("conflict")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique-constraint violation on
// either supported driver.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
