package repository

import (
	"errors"

	"tourbook/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation      = "23505"
	pgErrCodeForeignKeyViolation  = "23503"
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
	pgErrCodeLockNotAvailable     = "55P03"
)

// wrapPgError maps Postgres error codes onto repository kinds so usecases
// branch on IsKind instead of driver details.
func wrapPgError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.NewRepoErr(infra.KindDuplicateKey, msg, err)
		case pgErrCodeForeignKeyViolation:
			return infra.NewRepoErr(infra.KindForeignKeyViolated, msg, err)
		case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected, pgErrCodeLockNotAvailable:
			return infra.NewRepoErr(infra.KindConflict, msg, err)
		}
	}
	return infra.NewRepoErr(infra.KindDBFailure, msg, err)
}
