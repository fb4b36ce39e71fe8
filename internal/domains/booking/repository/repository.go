package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"prestige/infras/otel"
	"prestige/infras/postgres"
	"prestige/internal/domains/booking/model"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	"prestige/shared/failure"
	"prestige/shared/logger"
	gRepo "prestige/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	WithTx(ctx context.Context, fn func(sqltx *sqlx.Tx) error) error
	LockVehicle(ctx context.Context, sqltx *sqlx.Tx, vehicleID string) error
	HasConfirmedOverlap(ctx context.Context, sqltx *sqlx.Tx, vehicleID string, start, end time.Time, excludeID string) (bool, error)
	GetServices(ctx context.Context, bookingIDs ...string) ([]model.BookingService, error)
	ReplaceServicesTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string, services []model.BookingService) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	services gRepo.Repository[model.BookingService]
	db       *postgres.Connection
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		services:   gRepo.NewRepository[model.BookingService](model.ServiceEntityName, model.ServiceTableName, model.FieldBookingID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockVehicle takes a row lock on the vehicle for the rest of the transaction, serialising
// concurrent overlap checks on the same vehicle.
func (repo *repositoryImpl) LockVehicle(ctx context.Context, sqltx *sqlx.Tx, vehicleID string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockVehicle")
	defer scope.End()

	query := sqltx.Rebind("SELECT id FROM vehicles WHERE id = ? FOR UPDATE")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var id string

	err := sqltx.GetContext(ctx, &id, query, vehicleID)
	if errors.Is(err, sql.ErrNoRows) {
		return failure.NotFound("vehicle not found") // nolint:wrapcheck
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to lock vehicle (%s): %w", model.EntityName, err)
	}

	return nil
}

// HasConfirmedOverlap reports whether a confirmed booking of the vehicle other than excludeID
// intersects the closed range [start, end].
func (repo *repositoryImpl) HasConfirmedOverlap(ctx context.Context, sqltx *sqlx.Tx, vehicleID string, start, end time.Time, excludeID string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasConfirmedOverlap")
	defer scope.End()

	query := sqltx.Rebind(`SELECT EXISTS(SELECT 1 FROM bookings WHERE vehicle_id = ? AND status = ? ` +
		`AND start_date <= ? AND end_date >= ? AND id <> ?)`)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var exist bool

	err := sqltx.GetContext(ctx, &exist, query, vehicleID, model.StatusConfirmed,
		end.Format(constant.DateOnlyFormat), start.Format(constant.DateOnlyFormat), excludeID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check overlapping bookings (%s): %w", model.EntityName, err)
	}

	return exist, nil
}

func (repo *repositoryImpl) GetServices(ctx context.Context, bookingIDs ...string) ([]model.BookingService, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetServices")
	defer scope.End()

	if len(bookingIDs) == 0 {
		return []model.BookingService{}, nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Value: bookingIDs, Operator: gDto.FilterOperatorIn, Table: model.ServiceTableName},
		},
	}

	return repo.services.GetAll(ctx, gDto.QueryParams{SortBy: "services.name", SortDir: gDto.SortDirAsc}, filter) //nolint:wrapcheck
}

// ReplaceServicesTx swaps the selected add-ons of a booking inside sqltx.
func (repo *repositoryImpl) ReplaceServicesTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string, services []model.BookingService) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ReplaceServicesTx")
	defer scope.End()

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Value: bookingID, Operator: gDto.FilterOperatorEq, Table: model.ServiceTableName},
		},
	}

	if err := repo.services.DeleteTx(ctx, sqltx, filter); err != nil {
		return err //nolint:wrapcheck
	}

	return repo.services.InsertBulkTx(ctx, sqltx, services) //nolint:wrapcheck
}
