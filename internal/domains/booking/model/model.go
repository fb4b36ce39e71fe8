package model

import (
	"prestige/shared/model"
	"prestige/shared/timezone"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	ServiceTableName  = "booking_services"
	ServiceEntityName = "booking_service"

	FieldID               = "id"
	FieldUserID           = "user_id"
	FieldVehicleID        = "vehicle_id"
	FieldStartDate        = "start_date"
	FieldEndDate          = "end_date"
	FieldStatus           = "status"
	FieldBookingID        = "booking_id"
	FieldVehicleServiceID = "vehicle_service_id"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	CacheKeyGet    = "booking:get"
	CacheKeyGetAll = "booking:gets"
)

type Booking struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	VehicleID   string          `db:"vehicle_id"`
	StartDate   time.Time       `db:"start_date"`
	EndDate     time.Time       `db:"end_date"`
	Status      string          `db:"status"`
	VehicleName string          `db:"vehicle_name"  table:"vehicles" column:"name"`
	DailyPrice  decimal.Decimal `db:"daily_price"   table:"vehicles" column:"daily_price"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "INNER JOIN vehicles ON vehicles.id = bookings.vehicle_id"
}

// CanTransition reports whether an administrator or the owner may move the booking to status.
func (b Booking) CanTransition(status string) bool {
	switch status {
	case StatusConfirmed:
		return b.Status == StatusPending
	case StatusCancelled:
		return b.Status == StatusPending || b.Status == StatusConfirmed
	default:
		return false
	}
}

// HasStarted is true once today reaches the first rental day.
func (b Booking) HasStarted(today time.Time) bool {
	return !timezone.DateOf(today).Before(timezone.DateOf(b.StartDate))
}

// HasEnded is true once the last rental day is today or earlier.
func (b Booking) HasEnded(today time.Time) bool {
	return !timezone.DateOf(b.EndDate).After(timezone.DateOf(today))
}

// BookingService is an add-on selected for a booking.
type BookingService struct {
	BookingID        string          `db:"booking_id"`
	VehicleServiceID string          `db:"vehicle_service_id"`
	ServiceName      string          `db:"service_name" table:"services"         column:"name"`
	Price            decimal.Decimal `db:"price"        table:"vehicle_services" column:"price"`
}

func (BookingService) GetJoinQuery() string {
	return "INNER JOIN vehicle_services ON vehicle_services.id = booking_services.vehicle_service_id " +
		"INNER JOIN services ON services.id = vehicle_services.service_id"
}

// Orderings maps the public ordering keys to columns.
var Orderings = map[string]string{
	"start_date": TableName + "." + FieldStartDate,
	"created_at": TableName + ".created_at",
}

const DefaultOrdering = "-created_at"
