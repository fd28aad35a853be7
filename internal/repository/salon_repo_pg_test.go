package repository

import (
	"errors"
	"testing"

	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewSalonRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewSalonRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewAppointmentRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewAppointmentRepository(pool)
	assert.NotNil(t, repo)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError("op", nil))

	err := mapError("insert", &pgconn.PgError{Code: "23P01"})
	assert.ErrorIs(t, err, domain.ErrSchedulingConflict)

	err = mapError("insert", &pgconn.PgError{Code: "40001"})
	assert.ErrorIs(t, err, domain.ErrSchedulingConflict)

	boom := errors.New("boom")
	err = mapError("insert", boom)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, boom)
}

func TestNotFound(t *testing.T) {
	err := notFound("salon", 4, "get salon", pgx.ErrNoRows)
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, "salon", nf.Entity)
	assert.Equal(t, int64(4), nf.ID)

	err = notFound("salon", 4, "get salon", errors.New("down"))
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
