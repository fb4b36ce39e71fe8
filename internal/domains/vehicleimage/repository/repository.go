package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"prestige/infras/otel"
	"prestige/infras/postgres"
	"prestige/internal/domains/vehicleimage/model"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/logger"
	gRepo "prestige/shared/repository"
	"prestige/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type VehicleImage interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.VehicleImage) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.VehicleImage, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.VehicleImage, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	WithTx(ctx context.Context, fn func(sqltx *sqlx.Tx) error) error
	ClearMainTx(ctx context.Context, sqltx *sqlx.Tx, vehicleID, keepID string) error
	Reorder(ctx context.Context, vehicleID string, imageIDs []string, user string) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.VehicleImage]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) VehicleImage {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.VehicleImage](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ClearMainTx drops the main flag from every image of the vehicle except keepID.
func (repo *repositoryImpl) ClearMainTx(ctx context.Context, sqltx *sqlx.Tx, vehicleID, keepID string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".vehicle_image.ClearMainTx")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldVehicleID, Value: vehicleID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: "main_flag", Field: model.FieldIsMain, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: "keep_id", Field: model.FieldID, Value: keepID, Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
		},
	}

	return repo.UpdateTx(ctx, sqltx, map[string]any{model.FieldIsMain: false}, filter) //nolint:wrapcheck
}

// Reorder assigns sort positions in the given order and returns how many images of the vehicle
// were moved. Ids of other vehicles are skipped.
func (repo *repositoryImpl) Reorder(ctx context.Context, vehicleID string, imageIDs []string, user string) (updated int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".vehicle_image.Reorder")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := repo.db.Write.Rebind(fmt.Sprintf("UPDATE %s SET %s = ?, %s = ?, %s = ? WHERE %s = ? AND %s = ?",
		model.TableName, model.FieldSortOrder, constant.FieldModifiedAt, constant.FieldModifiedBy, model.FieldID, model.FieldVehicleID))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		now := timezone.Now()

		for position, id := range imageIDs {
			result, err := sqltx.ExecContext(ctx, query, position, now, user, id, vehicleID)
			if err != nil {
				logger.ErrorWithStack(err)

				return fmt.Errorf("failed to reorder images (%s): %w", model.EntityName, err)
			}

			rows, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows (%s): %w", model.EntityName, err)
			}

			updated += int(rows)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}
