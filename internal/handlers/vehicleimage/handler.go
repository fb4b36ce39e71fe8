package vehicleimage

import (
	"net/http"
	"prestige/infras/otel"
	"prestige/internal/domains/vehicleimage/model"
	"prestige/internal/domains/vehicleimage/model/dto"
	"prestige/internal/domains/vehicleimage/service"
	"prestige/shared"
	"prestige/shared/constant"
	"prestige/shared/failure"
	"prestige/shared/validator"
	"prestige/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.VehicleImage
	otel    otel.Otel
}

func New(service service.VehicleImage, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/vehicle-images", func(routerGroup chi.Router) {
		routerGroup.Patch("/{id}", handler.UpdateImage)
		routerGroup.Delete("/{id}", handler.DeleteImage)
	})
}

// VehicleRouter registers the gallery routes on a router mounted at
// /vehicles/{id}/images.
func (handler *Handler) VehicleRouter(routerGroup chi.Router) {
	routerGroup.Get("/", handler.GetImages)
	routerGroup.Post("/", handler.UploadImage)
	routerGroup.Put("/order", handler.ReorderImages)
}

// uploadRequest reads the multipart form into an upload request. The caller
// closes the returned file.
func uploadRequest(request *http.Request) (dto.UploadImageRequest, error) {
	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return dto.UploadImageRequest{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	req := dto.UploadImageRequest{
		Title:       request.FormValue(model.FieldTitle),
		Description: request.FormValue(model.FieldDescription),
	}

	if isMain := shared.ConvertStringToBool(request.FormValue(model.FieldIsMain)); isMain != nil {
		req.IsMain = *isMain
	}

	req.IsActive = shared.ConvertStringToBool(request.FormValue(model.FieldIsActive))

	if sortOrder := request.FormValue(model.FieldSortOrder); sortOrder != "" {
		order, err := shared.ConvertStringToInt(sortOrder)
		if err != nil {
			return dto.UploadImageRequest{}, failure.BadRequestFromString("sort_order must be an integer")
		}

		req.SortOrder = order
	}

	file, fileHeader, err := request.FormFile(constant.FormFile)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file
	}

	return req, nil
}

// UploadImage adds a picture to a vehicle gallery.
// @Summary Upload a vehicle image
// @Description Store a png, jpeg or gif picture. Marking it main clears the flag on the other images.
// @Tags VehicleImage
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param file formData file true "Image file"
// @Param title formData string false "Title, defaults to the file name"
// @Param description formData string false "Description"
// @Param is_main formData boolean false "Main image"
// @Param is_active formData boolean false "Shown in the gallery, default true"
// @Param sort_order formData integer false "Position in the gallery"
// @Success 201 {object} response.Data[dto.ImageResponse] "Image uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id}/images [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	vehicleID := chi.URLParam(request, constant.RequestParamID)

	req, err := uploadRequest(request)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(writer, err)

		return
	}

	if req.ImageFile != nil {
		defer req.ImageFile.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Upload(ctx, vehicleID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload vehicle image")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Image uploaded for vehicle " + vehicleID)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetImages lists the active images of a vehicle in gallery order.
// @Summary Get vehicle images
// @Tags VehicleImage
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Data[dto.GetImagesResponse] "Vehicle images"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id}/images [get]
func (handler *Handler) GetImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetImages")
	defer scope.End()

	vehicleID := chi.URLParam(r, constant.RequestParamID)

	images, err := handler.service.GetAll(ctx, vehicleID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicle images")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, images)
}

// ReorderImages rewrites the sort order of a vehicle gallery.
// @Summary Reorder vehicle images
// @Description The listed images get sort orders 0, 1, 2 and so on. Ids of other vehicles are ignored.
// @Tags VehicleImage
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param request body dto.ReorderImagesRequest true "Reorder Images Request"
// @Success 200 {object} response.Data[dto.ReorderImagesResponse] "Images reordered successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id}/images/order [put]
// @Security BearerAuth
func (handler *Handler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReorderImages")
	defer scope.End()

	vehicleID := chi.URLParam(r, constant.RequestParamID)

	req := dto.ReorderImagesRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Reorder(ctx, vehicleID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reorder vehicle images")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateImage edits the details of an image.
// @Summary Update a vehicle image
// @Tags VehicleImage
// @Accept json
// @Produce json
// @Param id path string true "Image ID"
// @Param request body dto.UpdateImageRequest true "Update Image Request"
// @Success 200 {object} response.Data[dto.ImageResponse] "Image updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicle-images/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateImage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateImageRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update vehicle image")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Image updated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteImage removes an image and its stored file.
// @Summary Delete a vehicle image
// @Tags VehicleImage
// @Produce json
// @Param id path string true "Image ID"
// @Success 200 {object} response.Message "Image deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicle-images/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteImage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete vehicle image")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Image deleted successfully")

	response.WithMessage(w, http.StatusOK, "Image deleted successfully")
}
