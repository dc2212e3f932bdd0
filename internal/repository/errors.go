package repository

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// test with errors.Is; the wrapping message names the entity kind.
var ErrNotFound = errors.New("not found")

// ErrConstraint is returned when the store rejects a write because of a
// uniqueness conflict, e.g. a duplicate (product_id, code) or uuid.
var ErrConstraint = errors.New("constraint violation")

// constraintErr maps SQLite constraint failures onto ErrConstraint so
// callers never have to match on driver error strings. The driver
// reports extended result codes; the low byte carries the primary code.
func constraintErr(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return ErrConstraint
	}
	return err
}
