package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"prestige/config"
	"prestige/infras/kafka"
	"prestige/infras/otel"
	bookingModel "prestige/internal/domains/booking/model"
	bookingRepo "prestige/internal/domains/booking/repository"
	"prestige/internal/domains/review/aggregator"
	"prestige/internal/domains/review/model"
	"prestige/internal/domains/review/model/dto"
	"prestige/internal/domains/review/repository"
	"prestige/shared"
	"prestige/shared/cache"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/failure"
	gRepo "prestige/shared/repository"
	"prestige/shared/timezone"

	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyReviewed = errors.New("booking has already been reviewed")
	ErrNotEligible     = errors.New("booking is not eligible for review")
)

const DefaultLatestLimit = 6

type Review interface {
	GetPublic(ctx context.Context, params gDto.QueryParams, vehicleID string) (dto.GetReviewsResponse, error)
	GetLatest(ctx context.Context, limit int) ([]dto.ReviewResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetReviewsResponse, error)
	Eligibility(ctx context.Context, vehicleID string) (dto.EligibilityResponse, error)
	Create(ctx context.Context, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	Update(ctx context.Context, req dto.UpdateReviewRequest, id string) (dto.ReviewResponse, error)
	Moderate(ctx context.Context, req dto.ModerateReviewRequest, id string) (dto.ReviewResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Review
	bookingRepo bookingRepo.Booking
	aggregator  aggregator.Aggregator
	kafka       kafka.Client
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Review, bookingRepo bookingRepo.Booking, aggregator aggregator.Aggregator, kafka kafka.Client,
	cfg *config.Config, cache cache.RedisCache, otel otel.Otel,
) Review {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		aggregator:  aggregator,
		kafka:       kafka,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) GetPublic(ctx context.Context, params gDto.QueryParams, vehicleID string) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPublic")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := repository.QualifyingFilter()
	if vehicleID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    bookingModel.FieldVehicleID,
			Value:    vehicleID,
			Operator: gDto.FilterOperatorEq,
			Table:    bookingModel.TableName,
		})
	}

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGetAll, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reviews")

		return res, nil
	}

	res, err = s.list(ctx, params, filter)
	if err != nil {
		return res, err
	}

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reviews to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetLatest(ctx context.Context, limit int) (res []dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetLatest")
	defer scope.End()
	defer scope.TraceIfError(err)

	if limit <= 0 {
		limit = DefaultLatestLimit
	}

	cacheKey := shared.BuildCacheKey(model.CacheKeyLatest, strconv.Itoa(limit))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for latest reviews")

		return res, nil
	}

	reviews, err := s.repo.GetLatestPerVehicle(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get latest reviews")

		return res, fmt.Errorf("failed to get latest reviews: %w", err)
	}

	res = dto.FromModels(reviews)

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save latest reviews to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetReviewsResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return s.list(ctx, params, shared.FilterByID(user, bookingModel.FieldUserID, bookingModel.TableName))
}

// Eligibility reports whether the caller can still review the vehicle and which booking would be used.
func (s *serviceImpl) Eligibility(ctx context.Context, vehicleID string) (res dto.EligibilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Eligibility")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	bookings, err := s.finishedBookings(ctx, user, vehicleID)
	if err != nil {
		return res, err
	}

	res.HasBooking = len(bookings) > 0
	res.State = model.NotEligible.String()

	for _, booking := range bookings {
		reviewed, err := s.isReviewed(ctx, booking.ID)
		if err != nil {
			return res, err
		}

		if reviewed {
			res.HasReview = true

			continue
		}

		if !res.CanReview {
			res.CanReview = true
			res.BookingID = booking.ID
		}
	}

	switch {
	case res.CanReview:
		res.State = model.Eligible.String()
	case res.HasReview:
		res.State = model.Reviewed.String()
	}

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.resolveBooking(ctx, req, user)
	if err != nil {
		return res, err
	}

	reviewed, err := s.isReviewed(ctx, booking.ID)
	if err != nil {
		return res, err
	}

	switch model.EligibilityOf(booking.Status == bookingModel.StatusConfirmed, booking.EndDate, timezone.Today(), reviewed) {
	case model.Reviewed:
		return res, failure.Wrap(http.StatusConflict, ErrAlreadyReviewed) // nolint:wrapcheck
	case model.NotEligible:
		return res, failure.Wrap(http.StatusBadRequest, ErrNotEligible) // nolint:wrapcheck
	case model.Eligible:
	}

	review := req.ToModel(booking.ID, user)

	if err = s.repo.Insert(ctx, review); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, failure.Wrap(http.StatusConflict, ErrAlreadyReviewed) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	review.UserID = booking.UserID
	review.VehicleID = booking.VehicleID
	review.VehicleName = booking.VehicleName

	s.afterWrite(ctx, review.VehicleID)
	s.publishCreated(ctx, review)

	res.FromModel(review)

	return res, nil
}

// Update is the owner edit. Changing rating or comment sends the review back to moderation.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReviewRequest, id string) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("no fields to update") // nolint:wrapcheck
	}

	review, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if review.UserID != user {
		return res, failure.Forbidden("review belongs to another user") // nolint:wrapcheck
	}

	review.Edit(req.Rating, req.Comment, req.IsPublic)

	if err = s.save(ctx, review, user); err != nil {
		return res, err
	}

	s.afterWrite(ctx, review.VehicleID)

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) Moderate(ctx context.Context, req dto.ModerateReviewRequest, id string) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Moderate")
	defer scope.End()
	defer scope.TraceIfError(err)

	review, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	review.IsPublic = *req.IsPublic
	review.IsModerated = *req.IsModerated
	review.ApplyVisibilityRules()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.save(ctx, review, user); err != nil {
		return res, err
	}

	s.afterWrite(ctx, review.VehicleID)

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	review, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(review.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete review")

		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.afterWrite(ctx, review.VehicleID)

	return nil
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReviewsResponse, err error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(reviews, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Review, error) {
	review, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return review, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return review, failure.NotFound("review not found") // nolint:wrapcheck
	}

	return review, nil
}

func (s *serviceImpl) save(ctx context.Context, review model.Review, user string) error {
	fields := map[string]any{
		model.FieldRating:        review.Rating,
		model.FieldComment:       review.Comment,
		model.FieldIsPublic:      review.IsPublic,
		model.FieldIsModerated:   review.IsModerated,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(review.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update review")

		return fmt.Errorf("failed to update review: %w", err)
	}

	return nil
}

// resolveBooking picks the booking named in the request, or the caller's oldest unreviewed
// finished booking of the named vehicle.
func (s *serviceImpl) resolveBooking(ctx context.Context, req dto.CreateReviewRequest, user string) (bookingModel.Booking, error) {
	if req.BookingID != constant.Empty {
		booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return booking, fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return booking, failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if booking.UserID != user {
			return booking, failure.Forbidden("booking belongs to another user") // nolint:wrapcheck
		}

		return booking, nil
	}

	bookings, err := s.finishedBookings(ctx, user, req.VehicleID)
	if err != nil {
		return bookingModel.Booking{}, err
	}

	if len(bookings) == 0 {
		return bookingModel.Booking{}, failure.Wrap(http.StatusBadRequest, ErrNotEligible) // nolint:wrapcheck
	}

	for _, booking := range bookings {
		reviewed, err := s.isReviewed(ctx, booking.ID)
		if err != nil {
			return booking, err
		}

		if !reviewed {
			return booking, nil
		}
	}

	return bookingModel.Booking{}, failure.Wrap(http.StatusConflict, ErrAlreadyReviewed) // nolint:wrapcheck
}

// finishedBookings lists the user's confirmed bookings of a vehicle whose last day has passed.
func (s *serviceImpl) finishedBookings(ctx context.Context, user, vehicleID string) ([]bookingModel.Booking, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldUserID, Value: user, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldVehicleID, Value: vehicleID, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldStatus, Value: bookingModel.StatusConfirmed, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{
				Field:    bookingModel.FieldEndDate,
				Value:    timezone.Today().Format(constant.DateOnlyFormat),
				Operator: gDto.FilterOperatorLessEq,
				Table:    bookingModel.TableName,
			},
		},
	}
	params := gDto.QueryParams{SortBy: bookingModel.TableName + "." + bookingModel.FieldEndDate, SortDir: gDto.SortDirAsc}

	bookings, err := s.bookingRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	return bookings, nil
}

func (s *serviceImpl) isReviewed(ctx context.Context, bookingID string) (bool, error) {
	reviewed, err := s.repo.Exist(ctx, shared.FilterByID(bookingID, model.FieldBookingID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check review")

		return false, fmt.Errorf("failed to check review: %w", err)
	}

	return reviewed, nil
}

// afterWrite refreshes the vehicle rating and drops cached review lists. A failed recompute is
// logged only; the next write or the ratings command repairs it.
func (s *serviceImpl) afterWrite(ctx context.Context, vehicleID string) {
	if _, err := s.aggregator.Recompute(ctx, vehicleID); err != nil {
		log.Error().Err(err).Str("vehicleID", vehicleID).Msg("failed to recompute vehicle rating")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheKeyLatest)
	}()
}

func (s *serviceImpl) publishCreated(ctx context.Context, review model.Review) {
	event := dto.ReviewCreatedEvent{}
	event.FromModel(review)

	go func() {
		err := s.kafka.SendMessages(context.WithoutCancel(ctx), s.cfg.ReviewCreatedTopic(), kafka.Message{
			Key:   review.ID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("reviewID", review.ID).Msg("failed to publish review created event")
		}
	}()
}
