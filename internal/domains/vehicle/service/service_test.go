package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"prestige/config"
	"prestige/infras/otel/mocks"
	addonMocks "prestige/internal/domains/addon/mocks"
	addonModel "prestige/internal/domains/addon/model"
	vehicleMocks "prestige/internal/domains/vehicle/mocks"
	"prestige/internal/domains/vehicle/model"
	"prestige/internal/domains/vehicle/model/dto"
	"prestige/internal/domains/vehicle/service"
	cacheMocks "prestige/shared/cache/mocks"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/failure"
)

const vehicleID = "45c48cce-2e2d-4fbd-b0a3-3f8e5f0d7d1a"

type fixture struct {
	repo     *vehicleMocks.MockVehicle
	services *addonMocks.MockVehicleService
	svc      service.Vehicle
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f := fixture{
		repo:     vehicleMocks.NewMockVehicle(ctrl),
		services: addonMocks.NewMockVehicleService(ctrl),
	}
	f.svc = service.New(f.repo, f.services, &config.Config{}, cache, mocks.NewOtel())

	return f
}

func adminContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin")
}

func cayenne() model.Vehicle {
	return model.Vehicle{
		ID:            vehicleID,
		Brand:         "Porsche",
		Name:          "Cayenne",
		BodyType:      "SUV",
		DailyPrice:    decimal.RequireFromString("10000"),
		IsAvailable:   true,
		AverageRating: decimal.RequireFromString("4.5"),
		ReviewCount:   2,
	}
}

func TestVehicleService_Create(t *testing.T) {
	t.Run("rounds price and defaults availability", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, v model.Vehicle) error {
			assert.Equal(t, "10000.13", v.DailyPrice.StringFixed(2))
			assert.True(t, v.IsAvailable)
			assert.Equal(t, "admin", v.CreatedBy)

			return nil
		})

		res, err := f.svc.Create(adminContext(), dto.CreateVehicleRequest{
			Brand: "Porsche", Name: "Cayenne", BodyType: "SUV", DailyPrice: decimal.RequireFromString("10000.125"),
		})

		require.NoError(t, err)
		assert.Equal(t, "0.00", res.AverageRating)
		assert.Equal(t, 0, res.ReviewCount)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(adminContext(), dto.CreateVehicleRequest{Brand: "Porsche", Name: "Cayenne", BodyType: "SUV"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestVehicleService_GetAll(t *testing.T) {
	f := newFixture(t)
	params := gDto.QueryParams{Page: 1, Limit: 10}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Vehicle{cayenne()}, nil)

	res, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

	require.NoError(t, err)
	require.Len(t, res.Vehicles, 1)
	assert.Equal(t, "10000.00", res.Vehicles[0].DailyPrice)
	assert.Equal(t, "4.50", res.Vehicles[0].AverageRating)
	assert.Equal(t, 1, res.TotalPage)
}

func TestVehicleService_Get(t *testing.T) {
	t.Run("with services", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cayenne(), nil)
		f.services.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]addonModel.VehicleService{
			{ID: "vs-1", VehicleID: vehicleID, ServiceID: "gps", ServiceName: "GPS", Price: decimal.RequireFromString("150")},
		}, nil)

		res, err := f.svc.Get(context.Background(), vehicleID)

		require.NoError(t, err)
		require.Len(t, res.Services, 1)
		assert.Equal(t, "GPS", res.Services[0].ServiceName)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Vehicle{}, nil)

		_, err := f.svc.Get(context.Background(), vehicleID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestVehicleService_GetSimilar(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cayenne(), nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Vehicle, error) {
			assert.Equal(t, model.SimilarLimit, params.Limit)

			where, args := filter.GetWhereClause()
			assert.True(t, strings.Contains(where, "vehicles.id != :exclude_id"), where)
			assert.Equal(t, vehicleID, args["exclude_id"])
			assert.Equal(t, "Porsche", args[model.FieldBrand])
			assert.Equal(t, "SUV", args[model.FieldBodyType])

			return []model.Vehicle{}, nil
		})

	res, err := f.svc.GetSimilar(context.Background(), vehicleID)

	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestVehicleService_GetBrands(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetDistinct(gomock.Any(), model.FieldBrand).Return([]string{"Audi", "Porsche"}, nil)

	brands, err := f.svc.GetBrands(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Audi", "Porsche"}, brands)
}

func TestVehicleService_Update(t *testing.T) {
	price := decimal.RequireFromString("12000")

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(adminContext(), dto.UpdateVehicleRequest{}, vehicleID)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Update(adminContext(), dto.UpdateVehicleRequest{DailyPrice: &price}, vehicleID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("updates", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Contains(t, fields, model.FieldDailyPrice)
				assert.NotContains(t, fields, model.FieldBrand)

				return nil
			})

		assert.NoError(t, f.svc.Update(adminContext(), dto.UpdateVehicleRequest{DailyPrice: &price}, vehicleID))
	})
}

func TestVehicleService_Delete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})

	err := f.svc.Delete(adminContext(), vehicleID)

	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}
