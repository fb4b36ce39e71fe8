package aggregator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"prestige/infras/otel/mocks"
	"prestige/internal/domains/review/aggregator"
	reviewMocks "prestige/internal/domains/review/mocks"
	vehicleMocks "prestige/internal/domains/vehicle/mocks"
	vehicleModel "prestige/internal/domains/vehicle/model"
	cacheMocks "prestige/shared/cache/mocks"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		average string
		count   int
	}{
		{name: "no reviews", ratings: nil, average: "0.00", count: 0},
		{name: "two reviews", ratings: []int{5, 4}, average: "4.50", count: 2},
		{name: "third review", ratings: []int{5, 4, 3}, average: "4.00", count: 3},
		{name: "repeating fraction", ratings: []int{5, 5, 4}, average: "4.67", count: 3},
		{name: "single", ratings: []int{3}, average: "3.00", count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := aggregator.Aggregate(tt.ratings)

			assert.Equal(t, tt.average, res.Average.StringFixed(2))
			assert.Equal(t, tt.count, res.Count)
		})
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	ratings := []int{4, 2, 5, 5}

	assert.Equal(t, aggregator.Aggregate(ratings), aggregator.Aggregate(ratings))
}

func newAggregator(t *testing.T) (aggregator.Aggregator, *reviewMocks.MockReview, *vehicleMocks.MockVehicle) {
	ctrl := gomock.NewController(t)

	reviews := reviewMocks.NewMockReview(ctrl)
	vehicles := vehicleMocks.NewMockVehicle(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return aggregator.New(reviews, vehicles, cache, mocks.NewOtel()), reviews, vehicles
}

func TestAggregator_Recompute(t *testing.T) {
	agg, reviews, vehicles := newAggregator(t)

	reviews.EXPECT().GetRatings(gomock.Any(), "vehicle-1").Return([]int{5, 4}, nil)
	vehicles.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			average, ok := fields[vehicleModel.FieldAverageRating].(decimal.Decimal)
			require.True(t, ok)
			assert.Equal(t, "4.50", average.StringFixed(2))
			assert.Equal(t, 2, fields[vehicleModel.FieldReviewCount])

			return nil
		})

	res, err := agg.Recompute(context.Background(), "vehicle-1")

	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	time.Sleep(10 * time.Millisecond)
}

func TestAggregator_RecomputeErrors(t *testing.T) {
	t.Run("ratings", func(t *testing.T) {
		agg, reviews, _ := newAggregator(t)

		reviews.EXPECT().GetRatings(gomock.Any(), "vehicle-1").Return(nil, errors.New("db down"))

		_, err := agg.Recompute(context.Background(), "vehicle-1")
		assert.Error(t, err)
	})

	t.Run("update", func(t *testing.T) {
		agg, reviews, vehicles := newAggregator(t)

		reviews.EXPECT().GetRatings(gomock.Any(), "vehicle-1").Return([]int{}, nil)
		vehicles.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := agg.Recompute(context.Background(), "vehicle-1")
		assert.Error(t, err)
	})
}

func TestAggregator_RecomputeAll(t *testing.T) {
	agg, reviews, vehicles := newAggregator(t)

	vehicles.EXPECT().GetIDs(gomock.Any()).Return([]string{"a", "b"}, nil)
	reviews.EXPECT().GetRatings(gomock.Any(), "a").Return([]int{5}, nil)
	reviews.EXPECT().GetRatings(gomock.Any(), "b").Return(nil, nil)
	vehicles.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	updated, err := agg.RecomputeAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	time.Sleep(10 * time.Millisecond)
}
