package sqlite

import (
	"strings"

	"github.com/arktoria/acolors/internal/repository"
	sqlite3 "modernc.org/sqlite"
)

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// wrapConstraint maps sqlite unique-constraint failures to ErrConflict so
// callers never have to look at driver error codes.
func wrapConstraint(err error) error {
	if err == nil {
		return nil
	}
	if serr, ok := err.(*sqlite3.Error); ok {
		// 2067 = SQLITE_CONSTRAINT_UNIQUE, 1555 = SQLITE_CONSTRAINT_PRIMARYKEY
		switch serr.Code() {
		case 2067, 1555:
			return repository.ErrConflict
		}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return repository.ErrConflict
	}
	return err
}
