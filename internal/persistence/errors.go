package persistence

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// Postgres SQLSTATE codes we translate.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// TranslateError maps driver constraint failures onto domain errors and
// returns any other error unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return &apperrors.DomainError{
				Code:       apperrors.CodeValidation,
				Message:    "referenced record does not exist or is still referenced",
				HTTPStatus: http.StatusBadRequest,
				Details:    map[string]any{"constraint": pgErr.ConstraintName},
				Err:        err,
			}
		case pgUniqueViolation:
			return &apperrors.DomainError{
				Code:       apperrors.CodeConflict,
				Message:    "record already exists",
				HTTPStatus: http.StatusConflict,
				Details:    map[string]any{"constraint": pgErr.ConstraintName},
				Err:        err,
			}
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "FOREIGN KEY")) {
			return &apperrors.DomainError{
				Code:       apperrors.CodeValidation,
				Message:    "referenced record does not exist or is still referenced",
				HTTPStatus: http.StatusBadRequest,
				Err:        err,
			}
		}
	}
	return err
}
