package vehicle

import (
	"net/http"
	"prestige/infras/otel"
	"prestige/internal/domains/vehicle/model"
	"prestige/internal/domains/vehicle/model/dto"
	"prestige/internal/domains/vehicle/service"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/validator"
	"prestige/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Vehicle
	otel    otel.Otel
}

func New(service service.Vehicle, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router registers the catalogue routes on a router already mounted at /vehicles.
func (handler *Handler) Router(routerGroup chi.Router) {
	routerGroup.Post("/", handler.CreateVehicle)
	routerGroup.Get("/", handler.GetVehicles)
	routerGroup.Get("/brands", handler.GetBrands)
	routerGroup.Get("/types", handler.GetTypes)
	routerGroup.Get("/{id}", handler.GetVehicleByID)
	routerGroup.Get("/{id}/similar", handler.GetSimilarVehicles)
	routerGroup.Patch("/{id}", handler.UpdateVehicle)
	routerGroup.Delete("/{id}", handler.DeleteVehicle)
}

// CreateVehicle adds a vehicle to the fleet.
// @Summary Create a vehicle
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param request body dto.CreateVehicleRequest true "Create Vehicle Request"
// @Success 201 {object} response.Data[dto.VehicleResponse] "Vehicle created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles [post]
// @Security BearerAuth
func (handler *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateVehicle")
	defer scope.End()

	req := dto.CreateVehicleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create vehicle")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Vehicle created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetVehicles lists the catalogue.
// @Summary Get all vehicles
// @Description List vehicles with filters, ordering and pagination.
// @Tags Vehicle
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param ordering query string false "price, name or average_rating, prefixed with - for descending"
// @Param brand query string false "Brand contains"
// @Param type query string false "Body type contains"
// @Param min_price query number false "Minimum daily price"
// @Param max_price query number false "Maximum daily price"
// @Param search query string false "Name or brand contains"
// @Param available query boolean false "Filter by availability"
// @Success 200 {object} response.Data[dto.GetVehiclesResponse] "List of vehicles"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles [get]
func (handler *Handler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVehicles")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.ApplyOrdering(r.URL.Query().Get(constant.RequestParamOrdering), model.Orderings, model.DefaultOrdering)

	filterGroup, err := catalogueFilter(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse catalogue filters")

		response.WithError(w, err)

		return
	}

	vehicles, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicles")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicles retrieved successfully")

	response.WithJSON(w, http.StatusOK, vehicles)
}

// GetVehicleByID retrieves a vehicle with the services it offers.
// @Summary Get a vehicle by ID
// @Tags Vehicle
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Data[dto.VehicleResponse] "Vehicle details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id} [get]
func (handler *Handler) GetVehicleByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVehicleByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	vehicle, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicle by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, vehicle)
}

// GetSimilarVehicles suggests alternatives to a vehicle.
// @Summary Get similar vehicles
// @Description Up to six available vehicles of the same brand or body type.
// @Tags Vehicle
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Data[[]dto.VehicleResponse] "Similar vehicles"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id}/similar [get]
func (handler *Handler) GetSimilarVehicles(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSimilarVehicles")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	vehicles, err := handler.service.GetSimilar(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get similar vehicles")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, vehicles)
}

// GetBrands lists the distinct brands of the fleet.
// @Summary Get vehicle brands
// @Tags Vehicle
// @Produce json
// @Success 200 {object} response.Data[[]string] "Brands"
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/brands [get]
func (handler *Handler) GetBrands(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBrands")
	defer scope.End()

	brands, err := handler.service.GetBrands(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicle brands")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, brands)
}

// GetTypes lists the distinct body types of the fleet.
// @Summary Get vehicle body types
// @Tags Vehicle
// @Produce json
// @Success 200 {object} response.Data[[]string] "Body types"
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/types [get]
func (handler *Handler) GetTypes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTypes")
	defer scope.End()

	types, err := handler.service.GetTypes(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicle types")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, types)
}

// UpdateVehicle updates a vehicle by its ID.
// @Summary Update a vehicle by ID
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param request body dto.UpdateVehicleRequest true "Update Vehicle Request"
// @Success 200 {object} response.Message "Vehicle updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateVehicle")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateVehicleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update vehicle")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle updated successfully")

	response.WithMessage(w, http.StatusOK, "Vehicle updated successfully")
}

// DeleteVehicle deletes a vehicle by its ID.
// @Summary Delete a vehicle by ID
// @Description Vehicles with bookings cannot be deleted; mark them unavailable instead.
// @Tags Vehicle
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Message "Vehicle deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteVehicle")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete vehicle")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Vehicle deleted successfully")

	response.WithMessage(w, http.StatusOK, "Vehicle deleted successfully")
}
