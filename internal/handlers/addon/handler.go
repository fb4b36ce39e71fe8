package addon

import (
	"net/http"
	"prestige/infras/otel"
	"prestige/internal/domains/addon/model"
	"prestige/internal/domains/addon/model/dto"
	"prestige/internal/domains/addon/service"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/validator"
	"prestige/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Addon
	otel    otel.Otel
}

func New(service service.Addon, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/services", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetServices)
		routerGroup.Post("/", handler.CreateService)
		routerGroup.Delete("/{id}", handler.DeleteService)
	})
}

// VehicleRouter registers the per-vehicle offer routes on a router mounted at
// /vehicles/{id}/services.
func (handler *Handler) VehicleRouter(routerGroup chi.Router) {
	routerGroup.Get("/", handler.GetVehicleServices)
	routerGroup.Post("/", handler.AttachService)
	routerGroup.Delete("/{"+constant.RequestParamVehicleServiceID+"}", handler.DetachService)
}

// GetServices lists the add-on catalogue.
// @Summary Get all services
// @Tags Service
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Name contains"
// @Success 200 {object} response.Data[dto.GetServicesResponse] "List of services"
// @Failure 500 {object} response.Error
// @Router /v1/services [get]
func (handler *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServices")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.ApplyOrdering(r.URL.Query().Get(constant.RequestParamOrdering), model.ServiceOrderings, model.DefaultServiceOrdering)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.And(gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.ServiceTableName,
		})
	}

	services, err := handler.service.GetServices(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get services")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, services)
}

// CreateService adds an add-on to the catalogue.
// @Summary Create a service
// @Tags Service
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Create Service Request"
// @Success 201 {object} response.Data[dto.ServiceResponse] "Service created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services [post]
// @Security BearerAuth
func (handler *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateService")
	defer scope.End()

	req := dto.CreateServiceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CreateService(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// DeleteService removes an add-on from the catalogue.
// @Summary Delete a service
// @Description Services still offered by a vehicle or used by a booking cannot be deleted.
// @Tags Service
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Message "Service deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/services/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.DeleteService(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service deleted successfully")

	response.WithMessage(w, http.StatusOK, "Service deleted successfully")
}

// GetVehicleServices lists the add-ons a vehicle offers with their prices.
// @Summary Get vehicle services
// @Tags Service
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Data[[]dto.VehicleServiceResponse] "Vehicle services"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id}/services [get]
func (handler *Handler) GetVehicleServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVehicleServices")
	defer scope.End()

	vehicleID := chi.URLParam(r, constant.RequestParamID)

	services, err := handler.service.GetVehicleServices(ctx, vehicleID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicle services")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, services)
}

// AttachService offers an add-on on a vehicle.
// @Summary Attach a service to a vehicle
// @Tags Service
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param request body dto.AttachServiceRequest true "Attach Service Request"
// @Success 201 {object} response.Data[dto.VehicleServiceResponse] "Service attached successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id}/services [post]
// @Security BearerAuth
func (handler *Handler) AttachService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AttachService")
	defer scope.End()

	vehicleID := chi.URLParam(r, constant.RequestParamID)

	req := dto.AttachServiceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.AttachToVehicle(ctx, vehicleID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to attach service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service attached to vehicle " + vehicleID)

	response.WithJSON(w, http.StatusCreated, res)
}

// DetachService stops offering an add-on on a vehicle.
// @Summary Detach a service from a vehicle
// @Tags Service
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param vehicleServiceID path string true "Vehicle service ID"
// @Success 200 {object} response.Message "Service detached successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id}/services/{vehicleServiceID} [delete]
// @Security BearerAuth
func (handler *Handler) DetachService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DetachService")
	defer scope.End()

	vehicleID := chi.URLParam(r, constant.RequestParamID)
	vehicleServiceID := chi.URLParam(r, constant.RequestParamVehicleServiceID)

	if err := handler.service.DetachFromVehicle(ctx, vehicleID, vehicleServiceID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to detach service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service detached from vehicle " + vehicleID)

	response.WithMessage(w, http.StatusOK, "Service detached successfully")
}
