package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestige/infras/otel/mocks"
	"prestige/infras/postgres"
	"prestige/shared/dto"
	"prestige/shared/repository"
)

type plate struct {
	ID     string `db:"id"`
	Number string `db:"number"`
	Brand  string `db:"brand"      column:"name" table:"brands"`
}

func (plate) GetJoinQuery() string {
	return "INNER JOIN brands ON brands.id = plates.brand_id"
}

func newRepository(t *testing.T) (repository.Repository[plate], sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.NewRepository[plate]("plate", "plates", "id", &postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func byNumber(number string) dto.FilterGroup {
	return dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "number", Value: number, Operator: dto.FilterOperatorEq, Table: "plates"},
	}}
}

func TestRepository_Columns(t *testing.T) {
	repo, _ := newRepository(t)

	assert.Equal(t, []string{"id", "number"}, repo.InsertColumns)
	assert.Equal(t, "plates.id, plates.number, brands.name AS brand", repo.SelectColumns(context.Background()))
	assert.Equal(t, "INNER JOIN brands ON brands.id = plates.brand_id", repo.JoinQuery())
}

func TestRepository_GetAll(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(`SELECT plates.id, plates.number, brands.name AS brand FROM plates INNER JOIN brands .* WHERE \(plates.number = \$1\) ORDER BY plates.number ASC LIMIT \$2 OFFSET \$3`).
		ExpectQuery().
		WithArgs("B 1 PRS", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "brand"}).AddRow("p1", "B 1 PRS", "Porsche"))

	plates, err := repo.GetAll(context.Background(), dto.QueryParams{Page: 2, Limit: 10, SortBy: "plates.number", SortDir: dto.SortDirAsc}, byNumber("B 1 PRS"))

	require.NoError(t, err)
	require.Len(t, plates, 1)
	assert.Equal(t, "Porsche", plates[0].Brand)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetNoRows(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(`SELECT .* FROM plates`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "brand"}))

	got, err := repo.Get(context.Background(), byNumber("none"))

	require.NoError(t, err)
	assert.Empty(t, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Count(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(`SELECT COUNT\(plates.id\) FROM plates INNER JOIN brands`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background(), dto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateSortsColumns(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec(`UPDATE plates SET brand_id = \$1, number = \$2 WHERE \(plates.number = \$3\)`).
		WithArgs("b2", "B 2 PRS", "B 1 PRS").
		WillReturnResult(sqlmock.NewResult(0, 1))

	filter := dto.FilterGroup{Filters: []any{
		dto.Filter{ArgName: "old_number", Field: "number", Value: "B 1 PRS", Operator: dto.FilterOperatorEq, Table: "plates"},
	}}

	err := repo.Update(context.Background(), map[string]any{"number": "B 2 PRS", "brand_id": "b2"}, filter)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RequiresFilter(t *testing.T) {
	repo, mock := newRepository(t)
	ctx := context.Background()

	assert.Error(t, repo.Delete(ctx, dto.FilterGroup{}))
	assert.Error(t, repo.Update(ctx, map[string]any{"number": "x"}, dto.FilterGroup{}))

	_, err := repo.Exist(ctx, dto.FilterGroup{})
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertBulkEmpty(t *testing.T) {
	repo, mock := newRepository(t)

	assert.NoError(t, repo.InsertBulk(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_WithTxRollsBack(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM plates WHERE \(plates.number = \$1\)`).
		WithArgs("B 1 PRS").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := repo.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		if err := repo.DeleteTx(context.Background(), tx, byNumber("B 1 PRS")); err != nil {
			return err
		}

		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
