package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"

	"prestige/config"
	"prestige/infras/otel"
	"prestige/internal/domains/addon/model"
	"prestige/internal/domains/addon/model/dto"
	"prestige/internal/domains/addon/repository"
	vehicleModel "prestige/internal/domains/vehicle/model"
	vehicleRepo "prestige/internal/domains/vehicle/repository"
	"prestige/shared"
	"prestige/shared/cache"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/failure"
	gRepo "prestige/shared/repository"

	"github.com/rs/zerolog/log"
)

type Addon interface {
	CreateService(ctx context.Context, req dto.CreateServiceRequest) (dto.ServiceResponse, error)
	GetServices(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetServicesResponse, error)
	DeleteService(ctx context.Context, id string) error
	GetVehicleServices(ctx context.Context, vehicleID string) ([]dto.VehicleServiceResponse, error)
	AttachToVehicle(ctx context.Context, vehicleID string, req dto.AttachServiceRequest) (dto.VehicleServiceResponse, error)
	DetachFromVehicle(ctx context.Context, vehicleID, vehicleServiceID string) error
	ResolveForBooking(ctx context.Context, vehicleID string, vehicleServiceIDs []string) ([]model.VehicleService, error)
}

type serviceImpl struct {
	serviceRepo        repository.Service
	vehicleServiceRepo repository.VehicleService
	vehicleRepo        vehicleRepo.Vehicle
	cfg                *config.Config
	cache              cache.RedisCache
	otel               otel.Otel
}

func New(serviceRepo repository.Service, vehicleServiceRepo repository.VehicleService, vehicleRepo vehicleRepo.Vehicle,
	cfg *config.Config, cache cache.RedisCache, otel otel.Otel,
) Addon {
	return &serviceImpl{
		serviceRepo:        serviceRepo,
		vehicleServiceRepo: vehicleServiceRepo,
		vehicleRepo:        vehicleRepo,
		cfg:                cfg,
		cache:              cache,
		otel:               otel,
	}
}

func (s *serviceImpl) CreateService(ctx context.Context, req dto.CreateServiceRequest) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateService")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	service := req.ToModel(user)

	if err = s.serviceRepo.Insert(ctx, service); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, failure.Conflict("service with this name already exists") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create service")

		return res, fmt.Errorf("failed to create service: %w", err)
	}

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, model.CacheKeyGetAllServices)
	}()

	res.FromModel(service)

	return res, nil
}

func (s *serviceImpl) GetServices(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetServices")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGetAllServices, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for services")

		return res, nil
	}

	total, err := s.serviceRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	services, err := s.serviceRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get services")

		return res, fmt.Errorf("failed to get services: %w", err)
	}

	res.FromModels(services, total, params.Limit)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save services to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) DeleteService(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteService")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.ServiceTableName)

	exist, err := s.serviceRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if service exists")

		return fmt.Errorf("failed to check if service exists: %w", err)
	}

	if !exist {
		return failure.NotFound("service not found") // nolint:wrapcheck
	}

	if err = s.serviceRepo.Delete(ctx, filter); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return failure.Conflict("service is still attached to vehicles") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete service")

		return fmt.Errorf("failed to delete service: %w", err)
	}

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, model.CacheKeyGetAllServices)
	}()

	return nil
}

func (s *serviceImpl) GetVehicleServices(ctx context.Context, vehicleID string) (res []dto.VehicleServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetVehicleServices")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheKeyVehicleServices, vehicleID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vehicle services")

		return res, nil
	}

	if err = s.ensureVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}

	services, err := s.listVehicleServices(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	res = dto.FromVehicleServices(services)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicle services to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) AttachToVehicle(ctx context.Context, vehicleID string, req dto.AttachServiceRequest) (res dto.VehicleServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AttachToVehicle")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = req.Validate(); err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = s.ensureVehicle(ctx, vehicleID); err != nil {
		return res, err
	}

	service, err := s.serviceRepo.Get(ctx, shared.FilterByID(req.ServiceID, model.FieldID, model.ServiceTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if service.ID == constant.Empty {
		return res, failure.NotFound("service not found") // nolint:wrapcheck
	}

	attached, err := s.vehicleServiceRepo.Exist(ctx, pairFilter(vehicleID, req.ServiceID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check vehicle service pair")

		return res, fmt.Errorf("failed to check vehicle service pair: %w", err)
	}

	if attached {
		return res, failure.Conflict("service already attached to this vehicle") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	vehicleService := req.ToModel(vehicleID, user)

	if err = s.vehicleServiceRepo.Insert(ctx, vehicleService); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, failure.Conflict("service already attached to this vehicle") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to attach service")

		return res, fmt.Errorf("failed to attach service: %w", err)
	}

	s.invalidateVehicle(ctx, vehicleID)

	vehicleService.ServiceName = service.Name
	res.FromModel(vehicleService)

	return res, nil
}

func (s *serviceImpl) DetachFromVehicle(ctx context.Context, vehicleID, vehicleServiceID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DetachFromVehicle")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: vehicleServiceID, Operator: gDto.FilterOperatorEq, Table: model.VehicleServiceTableName},
			gDto.Filter{Field: model.FieldVehicleID, Value: vehicleID, Operator: gDto.FilterOperatorEq, Table: model.VehicleServiceTableName},
		},
	}

	exist, err := s.vehicleServiceRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check vehicle service")

		return fmt.Errorf("failed to check vehicle service: %w", err)
	}

	if !exist {
		return failure.NotFound("vehicle service not found") // nolint:wrapcheck
	}

	if err = s.vehicleServiceRepo.Delete(ctx, filter); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return failure.Conflict("vehicle service is used by bookings") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to detach service")

		return fmt.Errorf("failed to detach service: %w", err)
	}

	s.invalidateVehicle(ctx, vehicleID)

	return nil
}

// ResolveForBooking returns the vehicle services a booking of vehicleID carries: the
// requested ones plus every required one. Ids that do not belong to the vehicle fail.
func (s *serviceImpl) ResolveForBooking(ctx context.Context, vehicleID string, vehicleServiceIDs []string) (res []model.VehicleService, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolveForBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	services, err := s.listVehicleServices(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(services))
	for _, service := range services {
		known[service.ID] = true
	}

	for _, id := range vehicleServiceIDs {
		if !known[id] {
			return nil, failure.BadRequestFromString(fmt.Sprintf("service %s is not offered for this vehicle", id)) // nolint:wrapcheck
		}
	}

	res = []model.VehicleService{}

	for _, service := range services {
		if service.IsRequired || slices.Contains(vehicleServiceIDs, service.ID) {
			res = append(res, service)
		}
	}

	return res, nil
}

func (s *serviceImpl) listVehicleServices(ctx context.Context, vehicleID string) ([]model.VehicleService, error) {
	params := gDto.QueryParams{SortBy: "services.name", SortDir: gDto.SortDirAsc}

	services, err := s.vehicleServiceRepo.GetAll(ctx, params,
		shared.FilterByID(vehicleID, model.FieldVehicleID, model.VehicleServiceTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle services")

		return nil, fmt.Errorf("failed to get vehicle services: %w", err)
	}

	return services, nil
}

func (s *serviceImpl) ensureVehicle(ctx context.Context, vehicleID string) error {
	exist, err := s.vehicleRepo.Exist(ctx, shared.FilterByID(vehicleID, vehicleModel.FieldID, vehicleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if vehicle exists")

		return fmt.Errorf("failed to check if vehicle exists: %w", err)
	}

	if !exist {
		return failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidateVehicle(ctx context.Context, vehicleID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheKeyVehicleServices, vehicleID)); err != nil {
			log.Error().Err(err).Msg("failed to delete vehicle services cache")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(vehicleModel.CacheKeyGet, vehicleID)); err != nil {
			log.Error().Err(err).Msg("failed to delete vehicle cache")
		}
	}()
}

func pairFilter(vehicleID, serviceID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldVehicleID, Value: vehicleID, Operator: gDto.FilterOperatorEq, Table: model.VehicleServiceTableName},
			gDto.Filter{Field: model.FieldServiceID, Value: serviceID, Operator: gDto.FilterOperatorEq, Table: model.VehicleServiceTableName},
		},
	}
}
