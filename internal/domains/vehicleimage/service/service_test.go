package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"prestige/config"
	"prestige/infras/otel/mocks"
	s3Mocks "prestige/infras/s3/mocks"
	vehicleMocks "prestige/internal/domains/vehicle/mocks"
	imageMocks "prestige/internal/domains/vehicleimage/mocks"
	"prestige/internal/domains/vehicleimage/model"
	"prestige/internal/domains/vehicleimage/model/dto"
	"prestige/internal/domains/vehicleimage/service"
	cacheMocks "prestige/shared/cache/mocks"
	"prestige/shared/constant"
	"prestige/shared/failure"
)

const (
	vehicleID = "45c48cce-2e2d-4fbd-b0a3-3f8e5f0d7d1a"
	imageID   = "a87ff679-a2f3-4e0c-9c1d-5b8e2f7a6c3d"
	imageURL  = "https://cdn.prestige.test/vehicles/" + vehicleID + "/photo.png"
)

type fixture struct {
	repo    *imageMocks.MockVehicleImage
	vehicle *vehicleMocks.MockVehicle
	storage *s3Mocks.MockStorage
	svc     service.VehicleImage
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f := fixture{
		repo:    imageMocks.NewMockVehicleImage(ctrl),
		vehicle: vehicleMocks.NewMockVehicle(ctrl),
		storage: s3Mocks.NewMockStorage(ctrl),
	}
	f.svc = service.New(f.repo, f.vehicle, f.storage, &config.Config{}, cache, mocks.NewOtel())

	return f
}

func (f fixture) expectTx() {
	f.repo.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(sqltx *sqlx.Tx) error) error {
			return fn(nil)
		})
}

func uploadRequest(isMain bool) dto.UploadImageRequest {
	header := textproto.MIMEHeader{}
	header.Set(constant.RequestHeaderContentType, constant.ContentTypeImagePNG)

	return dto.UploadImageRequest{
		Image:  &multipart.FileHeader{Filename: "photo.png", Header: header, Size: 1024},
		IsMain: isMain,
	}
}

func TestVehicleImageService_Upload(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UploadImageRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "main image clears the others",
			req:  uploadRequest(true),
			setupMock: func(f fixture) {
				f.vehicle.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.storage.EXPECT().Upload(gomock.Any(), "vehicles/"+vehicleID, gomock.Any(), constant.ContentTypeImagePNG, gomock.Any()).Return(imageURL, nil)
				f.expectTx()
				f.repo.EXPECT().ClearMainTx(gomock.Any(), gomock.Any(), vehicleID, gomock.Any()).Return(nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "regular image",
			req:  uploadRequest(false),
			setupMock: func(f fixture) {
				f.vehicle.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(imageURL, nil)
				f.expectTx()
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "vehicle not found",
			req:  uploadRequest(false),
			setupMock: func(f fixture) {
				f.vehicle.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "concurrent main image",
			req:  uploadRequest(true),
			setupMock: func(f fixture) {
				f.vehicle.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(imageURL, nil)
				f.expectTx()
				f.repo.EXPECT().ClearMainTx(gomock.Any(), gomock.Any(), vehicleID, gomock.Any()).Return(nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
				f.storage.EXPECT().Delete(gomock.Any(), imageURL).Return(nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "storage failure",
			req:  uploadRequest(false),
			setupMock: func(f fixture) {
				f.vehicle.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket gone"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Upload(context.Background(), vehicleID, tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, imageURL, res.ImageURL)
			assert.Equal(t, "photo", res.Title)
			assert.Equal(t, tt.req.IsMain, res.IsMain)
		})
	}
}

func TestVehicleImageService_Update(t *testing.T) {
	t.Run("promote to main", func(t *testing.T) {
		f := newFixture(t)
		isMain := true

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.VehicleImage{ID: imageID, VehicleID: vehicleID}, nil)
		f.expectTx()
		f.repo.EXPECT().ClearMainTx(gomock.Any(), gomock.Any(), vehicleID, imageID).Return(nil)
		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, &isMain, fields[model.FieldIsMain])

				return nil
			})

		res, err := f.svc.Update(context.Background(), dto.UpdateImageRequest{IsMain: &isMain}, imageID)

		require.NoError(t, err)
		assert.True(t, res.IsMain)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(context.Background(), dto.UpdateImageRequest{}, imageID)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		title := "Rear"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.VehicleImage{}, nil)

		_, err := f.svc.Update(context.Background(), dto.UpdateImageRequest{Title: &title}, imageID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestVehicleImageService_Delete(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.VehicleImage{ID: imageID, VehicleID: vehicleID, ImageURL: imageURL}, nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	f.storage.EXPECT().Delete(gomock.Any(), imageURL).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), imageID))

	time.Sleep(10 * time.Millisecond)
}

func TestVehicleImageService_Reorder(t *testing.T) {
	f := newFixture(t)
	ids := []string{"b", "a"}

	f.vehicle.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Reorder(gomock.Any(), vehicleID, ids, gomock.Any()).Return(2, nil)

	res, err := f.svc.Reorder(context.Background(), vehicleID, dto.ReorderImagesRequest{ImageIDs: ids})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)

	time.Sleep(10 * time.Millisecond)
}

func TestVehicleImageService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.vehicle.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.VehicleImage{
		{ID: "a", VehicleID: vehicleID, SortOrder: 0, IsActive: true},
		{ID: "b", VehicleID: vehicleID, SortOrder: 1, IsActive: true},
	}, nil)

	res, err := f.svc.GetAll(context.Background(), vehicleID)

	require.NoError(t, err)
	assert.Equal(t, vehicleID, res.VehicleID)
	assert.Len(t, res.Images, 2)

	time.Sleep(10 * time.Millisecond)
}
