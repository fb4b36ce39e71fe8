package service

import (
	"context"
	"fmt"

	"prestige/config"
	"prestige/infras/otel"
	addonModel "prestige/internal/domains/addon/model"
	addonDto "prestige/internal/domains/addon/model/dto"
	addonRepo "prestige/internal/domains/addon/repository"
	"prestige/internal/domains/vehicle/model"
	"prestige/internal/domains/vehicle/model/dto"
	"prestige/internal/domains/vehicle/repository"
	"prestige/shared"
	"prestige/shared/cache"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/failure"
	gRepo "prestige/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyBrands = "vehicle:brands"
	cacheKeyTypes  = "vehicle:types"
)

type Vehicle interface {
	Create(ctx context.Context, req dto.CreateVehicleRequest) (dto.VehicleResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVehiclesResponse, error)
	Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.VehicleResponse, error)
	GetSimilar(ctx context.Context, id string) ([]dto.VehicleResponse, error)
	GetBrands(ctx context.Context) ([]string, error)
	GetTypes(ctx context.Context) ([]string, error)
	Update(ctx context.Context, req dto.UpdateVehicleRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo               repository.Vehicle
	vehicleServiceRepo addonRepo.VehicleService
	cfg                *config.Config
	cache              cache.RedisCache
	otel               otel.Otel
}

func New(repo repository.Vehicle, vehicleServiceRepo addonRepo.VehicleService, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Vehicle {
	return &serviceImpl{
		repo:               repo,
		vehicleServiceRepo: vehicleServiceRepo,
		cfg:                cfg,
		cache:              cache,
		otel:               otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateVehicleRequest) (res dto.VehicleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = req.Validate(); err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	vehicle := req.ToModel(user)

	if err = s.repo.Insert(ctx, vehicle); err != nil {
		log.Error().Err(err).Msg("failed to create vehicle")

		return res, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.invalidateLists(ctx)

	res.FromModel(vehicle)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetVehiclesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGetAll, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vehicles")

		return res, nil
	}

	total, err := s.Count(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vehicles")

		return res, fmt.Errorf("failed to count vehicles: %w", err)
	}

	vehicles, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicles")

		return res, fmt.Errorf("failed to get vehicles: %w", err)
	}

	res.FromModels(vehicles, total, params.Limit)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicles to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyCount, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vehicle count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vehicles")

		return res, fmt.Errorf("failed to count vehicles: %w", err)
	}

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicle count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.VehicleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vehicle")

		return res, nil
	}

	vehicle, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return res, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return res, failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	services, err := s.vehicleServiceRepo.GetAll(ctx, gDto.QueryParams{SortBy: "services.name", SortDir: gDto.SortDirAsc},
		shared.FilterByID(id, addonModel.FieldVehicleID, addonModel.VehicleServiceTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle services")

		return res, fmt.Errorf("failed to get vehicle services: %w", err)
	}

	res.FromModel(vehicle)
	res.Services = addonDto.FromVehicleServices(services)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicle to cache")
		}
	}()

	return res, nil
}

// GetSimilar lists available vehicles sharing the brand or body type of id, best rated first.
func (s *serviceImpl) GetSimilar(ctx context.Context, id string) (res []dto.VehicleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSimilar")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheKeySimilar, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for similar vehicles")

		return res, nil
	}

	vehicle, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return nil, failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldIsAvailable, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: "exclude_id", Field: model.FieldID, Value: vehicle.ID, Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{Field: model.FieldBrand, Value: vehicle.Brand, Operator: gDto.FilterOperatorEq, Table: model.TableName},
					gDto.Filter{Field: model.FieldBodyType, Value: vehicle.BodyType, Operator: gDto.FilterOperatorEq, Table: model.TableName},
				},
			},
		},
	}

	params := gDto.QueryParams{
		Limit:   model.SimilarLimit,
		SortBy:  model.TableName + "." + model.FieldAverageRating,
		SortDir: gDto.SortDirDesc,
	}

	vehicles, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get similar vehicles")

		return nil, fmt.Errorf("failed to get similar vehicles: %w", err)
	}

	res = dto.FromModels(vehicles)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save similar vehicles to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetBrands(ctx context.Context) ([]string, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBrands")
	defer scope.End()

	return s.distinct(ctx, cacheKeyBrands, model.FieldBrand)
}

func (s *serviceImpl) GetTypes(ctx context.Context) ([]string, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetTypes")
	defer scope.End()

	return s.distinct(ctx, cacheKeyTypes, model.FieldBodyType)
}

func (s *serviceImpl) distinct(ctx context.Context, cacheKey, field string) (res []string, err error) {
	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.GetDistinct(ctx, field)
	if err != nil {
		log.Error().Err(err).Str("field", field).Msg("failed to get distinct vehicle values")

		return nil, fmt.Errorf("failed to get vehicle %s values: %w", field, err)
	}

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save distinct vehicle values to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateVehicleRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("no fields to update") // nolint:wrapcheck
	}

	if err = req.Validate(); err != nil {
		return failure.BadRequest(err) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check vehicle existence")

		return fmt.Errorf("failed to check vehicle existence: %w", err)
	}

	if !exist {
		return failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update vehicle")

		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.invalidateVehicle(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if vehicle exists")

		return fmt.Errorf("failed to check if vehicle exists: %w", err)
	}

	if !exist {
		return failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return failure.Conflict("vehicle has bookings and cannot be deleted") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete vehicle")

		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	s.invalidateVehicle(ctx, id)

	return nil
}

func (s *serviceImpl) invalidateVehicle(ctx context.Context, id string) {
	go func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(model.CacheKeyGet, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete vehicle cache")
		}
	}()

	s.invalidateLists(ctx)
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheKeyCount)
		shared.InvalidateCaches(c, s.cache, model.CacheKeySimilar)

		for _, key := range []string{cacheKeyBrands, cacheKeyTypes} {
			if err := s.cache.Delete(c, key); err != nil {
				log.Error().Err(err).Str("cacheKey", key).Msg("failed to delete vehicle catalogue cache")
			}
		}
	}()
}
