package pgutil

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

// UniqueViolation reports whether err is a postgres unique constraint
// violation (SQLSTATE 23505).
func UniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}

// ForeignKeyViolation reports whether err is a postgres foreign key
// violation (SQLSTATE 23503).
func ForeignKeyViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23503"
}
