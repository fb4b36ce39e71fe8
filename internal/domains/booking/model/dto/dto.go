package dto

import (
	"prestige/internal/domains/booking/model"
	"prestige/internal/domains/booking/pricing"
	"prestige/shared"
	"prestige/shared/constant"
	gDto "prestige/shared/dto"
	gModel "prestige/shared/model"
	"prestige/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

type CreateBookingRequest struct {
	VehicleID  string   `json:"vehicle_id"  validate:"required,uuid"`
	StartDate  string   `json:"start_date"  validate:"required,date"`
	EndDate    string   `json:"end_date"    validate:"required,date"`
	ServiceIDs []string `json:"service_ids" validate:"omitempty,dive,uuid"`
}

// Dates parses both dates; validation has already checked their format.
func (c *CreateBookingRequest) Dates() (start, end time.Time, err error) {
	return parseDates(c.StartDate, c.EndDate)
}

func (c *CreateBookingRequest) ToModel(user string, start, end time.Time) model.Booking {
	return model.Booking{
		ID:        uuid.NewString(),
		UserID:    user,
		VehicleID: c.VehicleID,
		StartDate: start,
		EndDate:   end,
		Status:    model.StatusPending,
		Metadata:  gModel.NewMetadata(user),
	}
}

type UpdateBookingRequest struct {
	StartDate  *string  `json:"start_date"  validate:"omitempty,date"`
	EndDate    *string  `json:"end_date"    validate:"omitempty,date"`
	ServiceIDs []string `json:"service_ids" validate:"omitempty,dive,uuid"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return u.StartDate == nil && u.EndDate == nil && u.ServiceIDs == nil
}

// Dates merges the requested dates over the current ones.
func (u *UpdateBookingRequest) Dates(current model.Booking) (start, end time.Time, err error) {
	startValue := current.StartDate.Format(constant.DateOnlyFormat)
	endValue := current.EndDate.Format(constant.DateOnlyFormat)

	if u.StartDate != nil {
		startValue = *u.StartDate
	}

	if u.EndDate != nil {
		endValue = *u.EndDate
	}

	return parseDates(startValue, endValue)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

type BookingServiceResponse struct {
	VehicleServiceID string `json:"vehicle_service_id"`
	ServiceName      string `json:"service_name"`
	Price            string `json:"price"`
}

type BookingResponse struct {
	ID              string                   `json:"id"`
	UserID          string                   `json:"user_id"`
	VehicleID       string                   `json:"vehicle_id"`
	VehicleName     string                   `json:"vehicle_name"`
	StartDate       string                   `json:"start_date"`
	EndDate         string                   `json:"end_date"`
	Status          string                   `json:"status"`
	Days            int                      `json:"days"`
	DiscountPercent int                      `json:"discount_percent"`
	DailyPrice      string                   `json:"daily_price"`
	BasePrice       string                   `json:"base_price"`
	DiscountAmount  string                   `json:"discount_amount"`
	TotalPrice      string                   `json:"total_price"`
	ServicesPrice   string                   `json:"services_price"`
	AmountDue       string                   `json:"amount_due"`
	Services        []BookingServiceResponse `json:"services"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking, services []model.BookingService) {
	quote := pricing.Calculate(booking.DailyPrice, booking.StartDate, booking.EndDate)

	servicesPrice := decimal.Zero
	r.Services = make([]BookingServiceResponse, len(services))

	for i, service := range services {
		servicesPrice = servicesPrice.Add(service.Price)

		r.Services[i] = BookingServiceResponse{
			VehicleServiceID: service.VehicleServiceID,
			ServiceName:      service.ServiceName,
			Price:            service.Price.StringFixed(moneyPlaces),
		}
	}

	r.ID = booking.ID
	r.UserID = booking.UserID
	r.VehicleID = booking.VehicleID
	r.VehicleName = booking.VehicleName
	r.StartDate = booking.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = booking.EndDate.Format(constant.DateOnlyFormat)
	r.Status = booking.Status
	r.Days = quote.Days
	r.DiscountPercent = quote.DiscountPercent
	r.DailyPrice = booking.DailyPrice.StringFixed(moneyPlaces)
	r.BasePrice = quote.BasePrice.StringFixed(moneyPlaces)
	r.DiscountAmount = quote.DiscountAmount.StringFixed(moneyPlaces)
	r.TotalPrice = quote.TotalPrice.StringFixed(moneyPlaces)
	r.ServicesPrice = servicesPrice.StringFixed(moneyPlaces)
	r.AmountDue = quote.TotalPrice.Add(servicesPrice).StringFixed(moneyPlaces)
	r.Metadata.FromModel(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

// FromModels builds the page; services are grouped by booking id.
func (r *GetBookingsResponse) FromModels(bookings []model.Booking, services map[string][]model.BookingService, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		r.Bookings[i].FromModel(booking, services[booking.ID])
	}
}

func parseDates(startValue, endValue string) (start, end time.Time, err error) {
	start, err = timezone.ParseDate(startValue)
	if err != nil {
		return start, end, err //nolint:wrapcheck
	}

	end, err = timezone.ParseDate(endValue)
	if err != nil {
		return start, end, err //nolint:wrapcheck
	}

	return start, end, nil
}
