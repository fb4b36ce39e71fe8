package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"prestige/infras/otel"
	"prestige/infras/postgres"
	"prestige/internal/domains/vehicle/model"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/logger"
	gRepo "prestige/shared/repository"
)

var errUnsupportedDistinctField = errors.New("unsupported distinct field")

type Vehicle interface {
	Insert(ctx context.Context, model model.Vehicle) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Vehicle, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Vehicle, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetDistinct(ctx context.Context, field string) ([]string, error)
	GetIDs(ctx context.Context) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Vehicle]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Vehicle {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Vehicle](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetDistinct returns the sorted non-empty values of a catalogue column (brand or body type).
func (repo *repositoryImpl) GetDistinct(ctx context.Context, field string) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".vehicle.GetDistinct")
	defer scope.End()

	if field != model.FieldBrand && field != model.FieldBodyType {
		return nil, errUnsupportedDistinctField
	}

	query := fmt.Sprintf("SELECT DISTINCT %[1]s FROM %[2]s WHERE %[1]s <> '' ORDER BY %[1]s ASC", field, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	values := []string{}

	if err := repo.db.Read.SelectContext(ctx, &values, query); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get distinct %s (%s): %w", field, model.EntityName, err)
	}

	return values, nil
}

func (repo *repositoryImpl) GetIDs(ctx context.Context) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".vehicle.GetIDs")
	defer scope.End()

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", model.FieldID, model.TableName, model.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	ids := []string{}

	if err := repo.db.Read.SelectContext(ctx, &ids, query); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get ids (%s): %w", model.EntityName, err)
	}

	return ids, nil
}
