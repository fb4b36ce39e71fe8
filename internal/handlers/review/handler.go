package review

import (
	"net/http"
	"prestige/infras/otel"
	"prestige/internal/domains/review/model"
	"prestige/internal/domains/review/model/dto"
	"prestige/internal/domains/review/service"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/validator"
	"prestige/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryVehicleID = "vehicle_id"

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reviews", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetReviews)
		routerGroup.Post("/", handler.CreateReview)
		routerGroup.Get("/latest", handler.GetLatestReviews)
		routerGroup.Get("/mine", handler.GetMyReviews)
		routerGroup.Get("/eligibility/{"+constant.RequestParamVehicleID+"}", handler.GetEligibility)
		routerGroup.Patch("/{id}", handler.UpdateReview)
		routerGroup.Patch("/{id}/moderation", handler.ModerateReview)
		routerGroup.Delete("/{id}", handler.DeleteReview)
	})
}

// GetReviews lists the public, moderated reviews.
// @Summary Get public reviews
// @Tags Review
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param ordering query string false "rating or created_at, prefixed with - for descending"
// @Param vehicle_id query string false "Only reviews of this vehicle"
// @Success 200 {object} response.Data[dto.GetReviewsResponse] "List of reviews"
// @Failure 500 {object} response.Error
// @Router /v1/reviews [get]
func (handler *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviews")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.ApplyOrdering(r.URL.Query().Get(constant.RequestParamOrdering), model.Orderings, model.DefaultOrdering)

	reviews, err := handler.service.GetPublic(ctx, queryParams, r.URL.Query().Get(queryVehicleID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reviews")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reviews)
}

// GetLatestReviews returns the newest public review of each vehicle.
// @Summary Get latest reviews
// @Tags Review
// @Produce json
// @Param limit query integer false "Number of vehicles, default 6"
// @Success 200 {object} response.Data[[]dto.ReviewResponse] "Latest reviews"
// @Failure 500 {object} response.Error
// @Router /v1/reviews/latest [get]
func (handler *Handler) GetLatestReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLatestReviews")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, false)

	reviews, err := handler.service.GetLatest(ctx, queryParams.Limit)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get latest reviews")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reviews)
}

// GetMyReviews lists the reviews written by the signed in user, hidden ones included.
// @Summary Get my reviews
// @Tags Review
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReviewsResponse] "List of reviews"
// @Failure 500 {object} response.Error
// @Router /v1/reviews/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyReviews")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.ApplyOrdering(r.URL.Query().Get(constant.RequestParamOrdering), model.Orderings, model.DefaultOrdering)

	reviews, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own reviews")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reviews)
}

// GetEligibility tells whether the signed in user may review a vehicle.
// @Summary Get review eligibility
// @Tags Review
// @Produce json
// @Param vehicleID path string true "Vehicle ID"
// @Success 200 {object} response.Data[dto.EligibilityResponse] "Eligibility"
// @Failure 500 {object} response.Error
// @Router /v1/reviews/eligibility/{vehicleID} [get]
// @Security BearerAuth
func (handler *Handler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEligibility")
	defer scope.End()

	vehicleID := chi.URLParam(r, constant.RequestParamVehicleID)

	res, err := handler.service.Eligibility(ctx, vehicleID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get review eligibility")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateReview reviews a finished booking.
// @Summary Create a review
// @Description Give booking_id, or vehicle_id to review the oldest finished booking of that vehicle without a review.
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse] "Review created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews [post]
// @Security BearerAuth
func (handler *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReview")
	defer scope.End()

	req := dto.CreateReviewRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create review")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review created for booking " + res.BookingID)

	response.WithJSON(w, http.StatusCreated, res)
}

// UpdateReview lets the author edit a review.
// @Summary Update a review
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body dto.UpdateReviewRequest true "Update Review Request"
// @Success 200 {object} response.Data[dto.ReviewResponse] "Review updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateReviewRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update review")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review updated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// ModerateReview sets the visibility flags of a review.
// @Summary Moderate a review
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body dto.ModerateReviewRequest true "Moderate Review Request"
// @Success 200 {object} response.Data[dto.ReviewResponse] "Review moderated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id}/moderation [patch]
// @Security BearerAuth
func (handler *Handler) ModerateReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ModerateReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ModerateReviewRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Moderate(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to moderate review")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review moderated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteReview removes a review.
// @Summary Delete a review
// @Tags Review
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Message "Review deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete review")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review deleted successfully")

	response.WithMessage(w, http.StatusOK, "Review deleted successfully")
}
