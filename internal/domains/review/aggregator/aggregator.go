// Package aggregator keeps the denormalised rating columns of vehicles in line with their reviews.
package aggregator

//go:generate go run go.uber.org/mock/mockgen -source=./aggregator.go -destination=../mocks/aggregator_mock.go -package=mocks

import (
	"context"
	"fmt"

	"prestige/infras/otel"
	reviewRepo "prestige/internal/domains/review/repository"
	vehicleModel "prestige/internal/domains/vehicle/model"
	vehicleRepo "prestige/internal/domains/vehicle/repository"
	"prestige/shared"
	"prestige/shared/cache"
	"prestige/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const averagePlaces = 2

type Result struct {
	Average decimal.Decimal
	Count   int
}

// Aggregate is the mean of ratings rounded to two places. No ratings give 0 and 0.
func Aggregate(ratings []int) Result {
	if len(ratings) == 0 {
		return Result{Average: decimal.Zero}
	}

	sum := int64(0)
	for _, rating := range ratings {
		sum += int64(rating)
	}

	average := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(ratings)))).Round(averagePlaces)

	return Result{Average: average, Count: len(ratings)}
}

type Aggregator interface {
	Recompute(ctx context.Context, vehicleID string) (Result, error)
	RecomputeAll(ctx context.Context) (int, error)
}

type aggregatorImpl struct {
	reviewRepo  reviewRepo.Review
	vehicleRepo vehicleRepo.Vehicle
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(reviewRepo reviewRepo.Review, vehicleRepo vehicleRepo.Vehicle, cache cache.RedisCache, otel otel.Otel) Aggregator {
	return &aggregatorImpl{
		reviewRepo:  reviewRepo,
		vehicleRepo: vehicleRepo,
		cache:       cache,
		otel:        otel,
	}
}

// Recompute rebuilds the rating of one vehicle from its qualifying reviews. Concurrent runs
// are harmless, the last write wins.
func (a *aggregatorImpl) Recompute(ctx context.Context, vehicleID string) (res Result, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".aggregator.Recompute")
	defer scope.End()
	defer scope.TraceIfError(err)

	ratings, err := a.reviewRepo.GetRatings(ctx, vehicleID)
	if err != nil {
		log.Error().Err(err).Str("vehicleID", vehicleID).Msg("failed to get ratings")

		return res, fmt.Errorf("failed to get ratings: %w", err)
	}

	res = Aggregate(ratings)

	fields := map[string]any{
		vehicleModel.FieldAverageRating: res.Average,
		vehicleModel.FieldReviewCount:   res.Count,
	}

	if err = a.vehicleRepo.Update(ctx, fields, shared.FilterByID(vehicleID, vehicleModel.FieldID, vehicleModel.TableName)); err != nil {
		log.Error().Err(err).Str("vehicleID", vehicleID).Msg("failed to store vehicle rating")

		return res, fmt.Errorf("failed to store vehicle rating: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := a.cache.Delete(c, shared.BuildCacheKey(vehicleModel.CacheKeyGet, vehicleID)); err != nil {
			log.Error().Err(err).Msg("failed to delete vehicle cache")
		}

		shared.InvalidateCaches(c, a.cache, vehicleModel.CacheKeyGetAll)
		shared.InvalidateCaches(c, a.cache, vehicleModel.CacheKeySimilar)
	}()

	scope.SetAttributes(map[string]any{"vehicle.id": vehicleID, "rating.count": res.Count})

	return res, nil
}

// RecomputeAll walks every vehicle and returns how many were updated.
func (a *aggregatorImpl) RecomputeAll(ctx context.Context) (updated int, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".aggregator.RecomputeAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	ids, err := a.vehicleRepo.GetIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list vehicles: %w", err)
	}

	for _, id := range ids {
		if _, err = a.Recompute(ctx, id); err != nil {
			return updated, err
		}

		updated++
	}

	return updated, nil
}
