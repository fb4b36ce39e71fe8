//go:build wireinject
// +build wireinject

package di

import (
	"prestige/config"
	"prestige/infras/jwt"
	"prestige/infras/kafka"
	"prestige/infras/otel"
	"prestige/infras/postgres"
	"prestige/infras/redis"
	"prestige/infras/s3"
	"prestige/permissions"
	"prestige/shared/cache"
	"prestige/transport/http"
	"prestige/transport/http/middleware"
	"prestige/transport/http/router"

	"github.com/google/wire"

	addonRepository "prestige/internal/domains/addon/repository"
	addonService "prestige/internal/domains/addon/service"
	authService "prestige/internal/domains/auth/service"
	bookingRepository "prestige/internal/domains/booking/repository"
	bookingService "prestige/internal/domains/booking/service"
	reviewAggregator "prestige/internal/domains/review/aggregator"
	reviewRepository "prestige/internal/domains/review/repository"
	reviewService "prestige/internal/domains/review/service"
	userRepository "prestige/internal/domains/user/repository"
	userService "prestige/internal/domains/user/service"
	vehicleRepository "prestige/internal/domains/vehicle/repository"
	vehicleService "prestige/internal/domains/vehicle/service"
	vehicleImageRepository "prestige/internal/domains/vehicleimage/repository"
	vehicleImageService "prestige/internal/domains/vehicleimage/service"

	addonHandler "prestige/internal/handlers/addon"
	authHandler "prestige/internal/handlers/auth"
	bookingHandler "prestige/internal/handlers/booking"
	reviewHandler "prestige/internal/handlers/review"
	userHandler "prestige/internal/handlers/user"
	vehicleHandler "prestige/internal/handlers/vehicle"
	vehicleImageHandler "prestige/internal/handlers/vehicleimage"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	wire.Bind(new(middleware.TokenRevocation), new(authService.Auth)),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var repositories = wire.NewSet(
	userRepository.New,
	vehicleRepository.New,
	addonRepository.NewService,
	addonRepository.NewVehicleService,
	bookingRepository.New,
	reviewRepository.New,
	vehicleImageRepository.New,
)

var domains = wire.NewSet(
	authService.New,
	userService.New,
	vehicleService.New,
	addonService.New,
	bookingService.New,
	reviewAggregator.New,
	reviewService.New,
	vehicleImageService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	vehicleHandler.New,
	addonHandler.New,
	bookingHandler.New,
	reviewHandler.New,
	vehicleImageHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

// InitializeAggregator builds the rating aggregator for the recompute job.
func InitializeAggregator() reviewAggregator.Aggregator {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		redis.New,
		sharedHelpers,
		reviewRepository.New,
		vehicleRepository.New,
		reviewAggregator.New,
	)

	return nil
}
