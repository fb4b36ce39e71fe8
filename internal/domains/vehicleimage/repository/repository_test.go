package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestige/infras/otel/mocks"
	"prestige/infras/postgres"
	"prestige/internal/domains/vehicleimage/repository"
)

const vehicleID = "45c48cce-2e2d-4fbd-b0a3-3f8e5f0d7d1a"

var reorderQuery = regexp.QuoteMeta("UPDATE vehicle_images SET sort_order = $1, modified_at = $2, modified_by = $3 WHERE id = $4 AND vehicle_id = $5")

func newRepository(t *testing.T) (repository.VehicleImage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func TestVehicleImageRepository_Reorder(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(reorderQuery).
		WithArgs(0, sqlmock.AnyArg(), "admin", "image-b", vehicleID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(reorderQuery).
		WithArgs(1, sqlmock.AnyArg(), "admin", "foreign", vehicleID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(reorderQuery).
		WithArgs(2, sqlmock.AnyArg(), "admin", "image-a", vehicleID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := repo.Reorder(context.Background(), vehicleID, []string{"image-b", "foreign", "image-a"}, "admin")

	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleImageRepository_ReorderRollsBack(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(reorderQuery).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	updated, err := repo.Reorder(context.Background(), vehicleID, []string{"image-a"}, "admin")

	assert.Error(t, err)
	assert.Zero(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleImageRepository_ClearMainTx(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE vehicle_images SET is_main = \$1\s+WHERE \(vehicle_images.vehicle_id = \$2 AND vehicle_images.is_main = \$3 AND vehicle_images.id != \$4\)`).
		WithArgs(false, vehicleID, true, "keep").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()

	err := repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		return repo.ClearMainTx(ctx, sqltx, vehicleID, "keep")
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
