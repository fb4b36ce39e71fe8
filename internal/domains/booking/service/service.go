package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"prestige/config"
	"prestige/infras/otel"
	addonModel "prestige/internal/domains/addon/model"
	addonService "prestige/internal/domains/addon/service"
	"prestige/internal/domains/booking/model"
	"prestige/internal/domains/booking/model/dto"
	"prestige/internal/domains/booking/policy"
	"prestige/internal/domains/booking/repository"
	vehicleModel "prestige/internal/domains/vehicle/model"
	vehicleRepo "prestige/internal/domains/vehicle/repository"
	"prestige/shared"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/failure"
	gRepo "prestige/shared/repository"
	"prestige/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	vehicleRepo vehicleRepo.Vehicle
	addon       addonService.Addon
	policy      policy.Config
	otel        otel.Otel
}

func New(repo repository.Booking, vehicleRepo vehicleRepo.Vehicle, addon addonService.Addon, cfg *config.Config, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:        repo,
		vehicleRepo: vehicleRepo,
		addon:       addon,
		policy:      policy.FromConfig(cfg),
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	start, end, err := req.Dates()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = policy.Validate(timezone.Today(), start, end, s.policy); err != nil {
		return res, policy.AsFailure(err) // nolint:wrapcheck
	}

	vehicle, err := s.vehicleRepo.Get(ctx, shared.FilterByID(req.VehicleID, vehicleModel.FieldID, vehicleModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get vehicle")

		return res, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.ID == constant.Empty {
		return res, failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	if !vehicle.IsAvailable {
		return res, failure.BadRequestFromString("vehicle is not available for booking") // nolint:wrapcheck
	}

	vehicleServices, err := s.addon.ResolveForBooking(ctx, vehicle.ID, req.ServiceIDs)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	booking := req.ToModel(user, start, end)
	selected := toBookingServices(booking.ID, vehicleServices)

	err = s.repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		if err := s.ensureNoOverlap(ctx, sqltx, booking); err != nil {
			return err
		}

		if err := s.repo.InsertTx(ctx, sqltx, booking); err != nil {
			return err // nolint:wrapcheck
		}

		return s.repo.ReplaceServicesTx(ctx, sqltx, booking.ID, selected) // nolint:wrapcheck
	})
	if err != nil {
		return res, s.txFailure(err, "failed to create booking")
	}

	booking.VehicleName = vehicle.Name
	booking.DailyPrice = vehicle.DailyPrice

	res.FromModel(booking, selected)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	ids := make([]string, len(bookings))
	for i, booking := range bookings {
		ids[i] = booking.ID
	}

	services, err := s.repo.GetServices(ctx, ids...)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking services")

		return res, fmt.Errorf("failed to get booking services: %w", err)
	}

	grouped := make(map[string][]model.BookingService, len(bookings))
	for _, service := range services {
		grouped[service.BookingID] = append(grouped[service.BookingID], service)
	}

	res.FromModels(bookings, grouped, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return s.GetAll(ctx, params, shared.FilterByID(user, model.FieldUserID, model.TableName))
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getAccessible(ctx, id)
	if err != nil {
		return res, err
	}

	return s.toResponse(ctx, booking)
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("no fields to update") // nolint:wrapcheck
	}

	booking, err := s.getAccessible(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status != model.StatusPending {
		return res, failure.BadRequestFromString("only pending bookings can be changed") // nolint:wrapcheck
	}

	start, end, err := req.Dates(booking)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = policy.Validate(timezone.Today(), start, end, s.policy); err != nil {
		return res, policy.AsFailure(err) // nolint:wrapcheck
	}

	serviceIDs := req.ServiceIDs
	if serviceIDs == nil {
		current, err := s.repo.GetServices(ctx, booking.ID)
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking services")

			return res, fmt.Errorf("failed to get booking services: %w", err)
		}

		serviceIDs = make([]string, len(current))
		for i, service := range current {
			serviceIDs[i] = service.VehicleServiceID
		}
	}

	vehicleServices, err := s.addon.ResolveForBooking(ctx, booking.VehicleID, serviceIDs)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	booking.StartDate = start
	booking.EndDate = end
	selected := toBookingServices(booking.ID, vehicleServices)

	fields := map[string]any{
		model.FieldStartDate:     start.Format(constant.DateOnlyFormat),
		model.FieldEndDate:       end.Format(constant.DateOnlyFormat),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	err = s.repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		if err := s.ensureNoOverlap(ctx, sqltx, booking); err != nil {
			return err
		}

		if err := s.repo.UpdateTx(ctx, sqltx, fields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
			return err // nolint:wrapcheck
		}

		return s.repo.ReplaceServicesTx(ctx, sqltx, booking.ID, selected) // nolint:wrapcheck
	})
	if err != nil {
		return res, s.txFailure(err, "failed to update booking")
	}

	res.FromModel(booking, selected)

	return res, nil
}

// Cancel lets the owner drop a pending or confirmed booking that has not started yet.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getAccessible(ctx, id)
	if err != nil {
		return res, err
	}

	if !booking.CanTransition(model.StatusCancelled) {
		return res, failure.BadRequestFromString("booking cannot be cancelled") // nolint:wrapcheck
	}

	if booking.HasStarted(timezone.Today()) {
		return res, failure.BadRequestFromString("booking has already started") // nolint:wrapcheck
	}

	if err = s.setStatus(ctx, &booking, model.StatusCancelled); err != nil {
		return res, err
	}

	return s.toResponse(ctx, booking)
}

// UpdateStatus is the administrator transition. Confirming re-checks overlaps under the vehicle lock.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if !booking.CanTransition(req.Status) {
		return res, failure.BadRequestFromString(fmt.Sprintf("booking cannot move from %s to %s", booking.Status, req.Status)) // nolint:wrapcheck
	}

	if err = s.setStatus(ctx, &booking, req.Status); err != nil {
		return res, err
	}

	return s.toResponse(ctx, booking)
}

func (s *serviceImpl) setStatus(ctx context.Context, booking *model.Booking, status string) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	fields := map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
	filter := shared.FilterByID(booking.ID, model.FieldID, model.TableName)

	err := s.repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		if status == model.StatusConfirmed {
			if err := s.ensureNoOverlap(ctx, sqltx, *booking); err != nil {
				return err
			}
		}

		return s.repo.UpdateTx(ctx, sqltx, fields, filter) // nolint:wrapcheck
	})
	if err != nil {
		return s.txFailure(err, "failed to update booking status")
	}

	booking.Status = status

	return nil
}

func (s *serviceImpl) ensureNoOverlap(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) error {
	if err := s.repo.LockVehicle(ctx, sqltx, booking.VehicleID); err != nil {
		return err // nolint:wrapcheck
	}

	overlap, err := s.repo.HasConfirmedOverlap(ctx, sqltx, booking.VehicleID, booking.StartDate, booking.EndDate, booking.ID)
	if err != nil {
		return err // nolint:wrapcheck
	}

	if overlap {
		return policy.ErrOverlap
	}

	return nil
}

func (s *serviceImpl) txFailure(err error, msg string) error {
	switch {
	case errors.Is(err, policy.ErrOverlap), gRepo.IsExclusionViolation(err):
		return failure.Wrap(http.StatusConflict, policy.ErrOverlap) // nolint:wrapcheck
	case failure.GetCode(err) != http.StatusInternalServerError:
		return err
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

// getAccessible loads a booking the caller owns, or any booking for administrators.
func (s *serviceImpl) getAccessible(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if booking.UserID != user && role != constant.RoleAdmin && role != constant.RoleSuperAdmin {
		return booking, failure.Forbidden("booking belongs to another user") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) toResponse(ctx context.Context, booking model.Booking) (res dto.BookingResponse, err error) {
	services, err := s.repo.GetServices(ctx, booking.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking services")

		return res, fmt.Errorf("failed to get booking services: %w", err)
	}

	res.FromModel(booking, services)

	return res, nil
}

func toBookingServices(bookingID string, vehicleServices []addonModel.VehicleService) []model.BookingService {
	services := make([]model.BookingService, len(vehicleServices))
	for i, vehicleService := range vehicleServices {
		services[i] = model.BookingService{
			BookingID:        bookingID,
			VehicleServiceID: vehicleService.ID,
			ServiceName:      vehicleService.ServiceName,
			Price:            vehicleService.Price,
		}
	}

	return services
}
