// Package repository contains data access logic separated from HTTP handlers
// and services.  This file defines error values and helpers reused across the
// repositories.  Sentinel values allow higher layers to distinguish between
// failure scenarios: a missing row maps to a 404, a duplicate unique value or
// a restricted delete maps to a 409.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrGenreNotFound is returned when a genre cannot be found in the DB.
var ErrGenreNotFound = errors.New("genre not found")

// ErrDirectorNotFound is returned when a director cannot be found in the DB.
var ErrDirectorNotFound = errors.New("director not found")

// ErrMovieNotFound is returned when a movie cannot be found in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// IsDuplicate reports whether err is a unique-constraint violation.  MySQL
// surfaces these as error 1062, matched on the typed driver error; the
// SQLite driver used in tests reports "UNIQUE constraint failed" and is
// matched on that message.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
