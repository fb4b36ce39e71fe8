package service

import (
	"context"
	"fmt"

	"prestige/config"
	"prestige/infras/otel"
	"prestige/infras/s3"
	vehicleModel "prestige/internal/domains/vehicle/model"
	vehicleRepo "prestige/internal/domains/vehicle/repository"
	"prestige/internal/domains/vehicleimage/model"
	"prestige/internal/domains/vehicleimage/model/dto"
	"prestige/internal/domains/vehicleimage/repository"
	"prestige/shared"
	"prestige/shared/cache"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/failure"
	gRepo "prestige/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type VehicleImage interface {
	Upload(ctx context.Context, vehicleID string, req dto.UploadImageRequest) (dto.ImageResponse, error)
	GetAll(ctx context.Context, vehicleID string) (dto.GetImagesResponse, error)
	Update(ctx context.Context, req dto.UpdateImageRequest, id string) (dto.ImageResponse, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, vehicleID string, req dto.ReorderImagesRequest) (dto.ReorderImagesResponse, error)
}

type serviceImpl struct {
	repo        repository.VehicleImage
	vehicleRepo vehicleRepo.Vehicle
	storage     s3.Storage
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.VehicleImage, vehicleRepo vehicleRepo.Vehicle, storage s3.Storage, cfg *config.Config,
	cache cache.RedisCache, otel otel.Otel,
) VehicleImage {
	return &serviceImpl{
		repo:        repo,
		vehicleRepo: vehicleRepo,
		storage:     storage,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Upload(ctx context.Context, vehicleID string, req dto.UploadImageRequest) (res dto.ImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Upload")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.ensureVehicle(ctx, vehicleID); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	image := req.ToModel(vehicleID, constant.Empty, user)
	contentType := req.Image.Header.Get(constant.RequestHeaderContentType)

	image.ImageURL, err = s.storage.Upload(ctx, model.StorageDirectory+"/"+vehicleID, req.ObjectName(image.ID), contentType, req.ImageFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload vehicle image")

		return res, fmt.Errorf("failed to upload vehicle image: %w", err)
	}

	err = s.repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		if image.IsMain {
			if err := s.repo.ClearMainTx(ctx, sqltx, vehicleID, image.ID); err != nil {
				return err // nolint:wrapcheck
			}
		}

		return s.repo.InsertTx(ctx, sqltx, image) // nolint:wrapcheck
	})
	if err != nil {
		s.removeObject(ctx, image.ImageURL)

		return res, s.writeFailure(err, "failed to save vehicle image")
	}

	s.invalidate(ctx, vehicleID)

	res.FromModel(image)

	return res, nil
}

// GetAll lists the active images of a vehicle by sort order, then upload time.
func (s *serviceImpl) GetAll(ctx context.Context, vehicleID string) (res dto.GetImagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheKeyGetAll, vehicleID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vehicle images")

		return res, nil
	}

	if err = s.ensureVehicle(ctx, vehicleID); err != nil {
		return res, err
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldVehicleID, Value: vehicleID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldIsActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldSortOrder + " ASC, " + model.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}

	images, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle images")

		return res, fmt.Errorf("failed to get vehicle images: %w", err)
	}

	res.FromModels(vehicleID, images)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vehicle images to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateImageRequest, id string) (res dto.ImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("no fields to update") // nolint:wrapcheck
	}

	image, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	fields := shared.TransformFields(req, user)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		if req.IsMain != nil && *req.IsMain {
			if err := s.repo.ClearMainTx(ctx, sqltx, image.VehicleID, image.ID); err != nil {
				return err // nolint:wrapcheck
			}
		}

		return s.repo.UpdateTx(ctx, sqltx, fields, filter) // nolint:wrapcheck
	})
	if err != nil {
		return res, s.writeFailure(err, "failed to update vehicle image")
	}

	applyUpdate(&image, req)
	s.invalidate(ctx, image.VehicleID)

	res.FromModel(image)

	return res, nil
}

// Delete removes the row first; the stored object is removed in the background.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	image, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete vehicle image")

		return fmt.Errorf("failed to delete vehicle image: %w", err)
	}

	s.removeObject(ctx, image.ImageURL)
	s.invalidate(ctx, image.VehicleID)

	return nil
}

func (s *serviceImpl) Reorder(ctx context.Context, vehicleID string, req dto.ReorderImagesRequest) (res dto.ReorderImagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reorder")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.ensureVehicle(ctx, vehicleID); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res.Updated, err = s.repo.Reorder(ctx, vehicleID, req.ImageIDs, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to reorder vehicle images")

		return res, fmt.Errorf("failed to reorder vehicle images: %w", err)
	}

	s.invalidate(ctx, vehicleID)

	return res, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.VehicleImage, error) {
	image, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle image")

		return image, fmt.Errorf("failed to get vehicle image: %w", err)
	}

	if image.ID == constant.Empty {
		return image, failure.NotFound("vehicle image not found") // nolint:wrapcheck
	}

	return image, nil
}

func (s *serviceImpl) ensureVehicle(ctx context.Context, vehicleID string) error {
	exist, err := s.vehicleRepo.Exist(ctx, shared.FilterByID(vehicleID, vehicleModel.FieldID, vehicleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check vehicle existence")

		return fmt.Errorf("failed to check vehicle existence: %w", err)
	}

	if !exist {
		return failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) writeFailure(err error, msg string) error {
	if gRepo.IsUniqueViolation(err) {
		return failure.Conflict("vehicle already has a main image") // nolint:wrapcheck
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

func (s *serviceImpl) removeObject(ctx context.Context, url string) {
	go func() {
		if err := s.storage.Delete(context.WithoutCancel(ctx), url); err != nil {
			log.Error().Err(err).Str("url", url).Msg("failed to delete vehicle image object")
		}
	}()
}

// invalidate drops the image list and the vehicle entries that embed the main image.
func (s *serviceImpl) invalidate(ctx context.Context, vehicleID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheKeyGetAll, vehicleID)); err != nil {
			log.Error().Err(err).Msg("failed to delete vehicle images cache")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(vehicleModel.CacheKeyGet, vehicleID)); err != nil {
			log.Error().Err(err).Msg("failed to delete vehicle cache")
		}

		shared.InvalidateCaches(c, s.cache, vehicleModel.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, vehicleModel.CacheKeySimilar)
	}()
}

func applyUpdate(image *model.VehicleImage, req dto.UpdateImageRequest) {
	if req.Title != nil {
		image.Title = *req.Title
	}

	if req.Description != nil {
		image.Description = *req.Description
	}

	if req.IsMain != nil {
		image.IsMain = *req.IsMain
	}

	if req.IsActive != nil {
		image.IsActive = *req.IsActive
	}

	if req.SortOrder != nil {
		image.SortOrder = *req.SortOrder
	}
}
