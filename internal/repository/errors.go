package repository

import (
	"errors"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
)

// mapError translates driver errors into the domain taxonomy. Callers that
// can name the missing entity handle pgx.ErrNoRows themselves.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrSchedulingConflict) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation, pgSerializationFailure:
			return domain.ErrSchedulingConflict
		}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

func notFound(entity string, id int64, op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return mapError(op, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}
