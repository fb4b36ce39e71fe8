package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"prestige/infras/otel"
	"prestige/infras/postgres"
	"prestige/internal/domains/user/model"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	gRepo "prestige/shared/repository"
)

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// EmailTaken reports whether another account than exceptID already uses email.
func (r *repositoryImpl) EmailTaken(ctx context.Context, email, exceptID string) (taken bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.EmailTaken")
	defer scope.End()
	defer scope.TraceIfError(err)

	group := gDto.FilterGroup{Filters: []any{
		gDto.Filter{Field: model.FieldEmail, Value: email, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}}

	if exceptID != constant.Empty {
		group.And(gDto.Filter{
			ArgName:  "except_id",
			Field:    model.FieldID,
			Value:    exceptID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	taken, err = r.Exist(ctx, group)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return taken, nil
}
