package repository_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestige/infras/otel/mocks"
	"prestige/infras/postgres"
	"prestige/internal/domains/booking/model"
	"prestige/internal/domains/booking/repository"
	"prestige/shared/failure"
)

const vehicleID = "45c48cce-2e2d-4fbd-b0a3-3f8e5f0d7d1a"

var (
	lockQuery    = regexp.QuoteMeta("SELECT id FROM vehicles WHERE id = $1 FOR UPDATE")
	overlapQuery = regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM bookings WHERE vehicle_id = $1 AND status = $2 " +
		"AND start_date <= $3 AND end_date >= $4 AND id <> $5)")
)

func newRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func TestBookingRepository_LockAndCheckOverlap(t *testing.T) {
	repo, mock := newRepository(t)

	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs(vehicleID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(vehicleID))
	mock.ExpectQuery(overlapQuery).
		WithArgs(vehicleID, model.StatusConfirmed, "2025-06-25", "2025-06-15", "new-booking").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	ctx := context.Background()

	err := repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		if err := repo.LockVehicle(ctx, sqltx, vehicleID); err != nil {
			return err
		}

		overlap, err := repo.HasConfirmedOverlap(ctx, sqltx, vehicleID, start, end, "new-booking")
		if err != nil {
			return err
		}

		assert.True(t, overlap)

		return errors.New("overlap")
	})

	assert.EqualError(t, err, "overlap")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_LockVehicleMissing(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs(vehicleID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	ctx := context.Background()

	err := repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		return repo.LockVehicle(ctx, sqltx, vehicleID)
	})

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_WithTxCommits(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(overlapQuery).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectCommit()

	ctx := context.Background()
	day := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)

	err := repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		overlap, err := repo.HasConfirmedOverlap(ctx, sqltx, vehicleID, day, day, "")
		assert.False(t, overlap)

		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetServices(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare("SELECT .* FROM booking_services INNER JOIN vehicle_services .* IN \\(\\$1, \\$2\\)").
		ExpectQuery().
		WithArgs("b1", "b2").
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "vehicle_service_id", "service_name", "price"}).
			AddRow("b1", "vs1", "GPS", "150.00").
			AddRow("b2", "vs2", "Child seat", "75.50"))

	services, err := repo.GetServices(context.Background(), "b1", "b2")

	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "GPS", services[0].ServiceName)
	assert.Equal(t, "75.50", services[1].Price.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetServicesEmpty(t *testing.T) {
	repo, mock := newRepository(t)

	services, err := repo.GetServices(context.Background())

	require.NoError(t, err)
	assert.Empty(t, services)
	assert.NoError(t, mock.ExpectationsWereMet())
}
