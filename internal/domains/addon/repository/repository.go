package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"prestige/infras/otel"
	"prestige/infras/postgres"
	"prestige/internal/domains/addon/model"
	gDto "prestige/shared/dto"
	gRepo "prestige/shared/repository"
)

type Service interface {
	Insert(ctx context.Context, model model.Service) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Service, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Service, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type VehicleService interface {
	Insert(ctx context.Context, model model.VehicleService) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.VehicleService, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.VehicleService, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type serviceRepositoryImpl struct {
	gRepo.Repository[model.Service]
}

func NewService(db *postgres.Connection, otel otel.Otel) Service {
	return &serviceRepositoryImpl{
		Repository: gRepo.NewRepository[model.Service](model.ServiceEntityName, model.ServiceTableName, model.FieldID, db, otel),
	}
}

type vehicleServiceRepositoryImpl struct {
	gRepo.Repository[model.VehicleService]
}

func NewVehicleService(db *postgres.Connection, otel otel.Otel) VehicleService {
	return &vehicleServiceRepositoryImpl{
		Repository: gRepo.NewRepository[model.VehicleService](model.VehicleServiceEntityName, model.VehicleServiceTableName, model.FieldID, db, otel),
	}
}
