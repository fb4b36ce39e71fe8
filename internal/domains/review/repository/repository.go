package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"prestige/infras/otel"
	"prestige/infras/postgres"
	"prestige/internal/domains/review/model"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/logger"
	gRepo "prestige/shared/repository"
)

type Review interface {
	Insert(ctx context.Context, model model.Review) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Review, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetRatings(ctx context.Context, vehicleID string) ([]int, error)
	GetLatestPerVehicle(ctx context.Context, limit int) ([]model.Review, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// QualifyingFilter is the one visibility rule for reviews shown publicly or counted in ratings.
func QualifyingFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldIsPublic, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldIsModerated, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

func (repo *repositoryImpl) GetRatings(ctx context.Context, vehicleID string) ([]int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.GetRatings")
	defer scope.End()

	query := repo.db.Read.Rebind("SELECT reviews.rating FROM reviews INNER JOIN bookings ON bookings.id = reviews.booking_id " +
		"WHERE bookings.vehicle_id = ? AND reviews.is_public = TRUE AND reviews.is_moderated = TRUE")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	ratings := []int{}

	if err := repo.db.Read.SelectContext(ctx, &ratings, query, vehicleID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get ratings (%s): %w", model.EntityName, err)
	}

	return ratings, nil
}

// GetLatestPerVehicle returns the newest qualifying review of each vehicle, newest first.
func (repo *repositoryImpl) GetLatestPerVehicle(ctx context.Context, limit int) ([]model.Review, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.GetLatestPerVehicle")
	defer scope.End()

	query := repo.db.Read.Rebind(fmt.Sprintf("SELECT * FROM (SELECT DISTINCT ON (bookings.vehicle_id) %s FROM reviews %s "+
		"WHERE reviews.is_public = TRUE AND reviews.is_moderated = TRUE "+
		"ORDER BY bookings.vehicle_id, reviews.created_at DESC) latest ORDER BY latest.created_at DESC LIMIT ?",
		repo.SelectColumns(ctx), repo.JoinQuery()))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	reviews := []model.Review{}

	if err := repo.db.Read.SelectContext(ctx, &reviews, query, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get latest reviews (%s): %w", model.EntityName, err)
	}

	return reviews, nil
}
