package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrBusinessNotFound = errors.New("business not found")

	// ErrDuplicate wraps a storage-level unique constraint violation. The
	// unique indexes are the final arbiter for identity and review races;
	// callers translate this into their conflict rejection.
	ErrDuplicate = errors.New("duplicate record")
)

const uniqueViolationCode = "23505"

func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicate
	}
	return err
}
