package postgres

import (
	"database/sql"

	ierr "github.com/faturado/faturado/internal/errors"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a postgres unique index violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if ierr.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}

func isNoRows(err error) bool {
	return ierr.Is(err, sql.ErrNoRows)
}
