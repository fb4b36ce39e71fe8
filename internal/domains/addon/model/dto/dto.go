package dto

import (
	"errors"
	"prestige/internal/domains/addon/model"
	"prestige/shared"
	gDto "prestige/shared/dto"
	gModel "prestige/shared/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var errNegativePrice = errors.New("price must not be negative")

type CreateServiceRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty"`
}

func (c *CreateServiceRequest) ToModel(user string) model.Service {
	return model.Service{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Metadata:    gModel.NewMetadata(user),
	}
}

type ServiceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	gDto.Metadata
}

func (r *ServiceResponse) FromModel(model model.Service) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Metadata.FromModel(model.Metadata)
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}

type AttachServiceRequest struct {
	ServiceID  string          `json:"service_id"  validate:"required,uuid"`
	Price      decimal.Decimal `json:"price"       swaggertype:"string"`
	IsRequired bool            `json:"is_required"`
	Notes      string          `json:"notes"       validate:"omitempty,max=255"`
}

func (a *AttachServiceRequest) Validate() error {
	if a.Price.IsNegative() {
		return errNegativePrice
	}

	return nil
}

func (a *AttachServiceRequest) ToModel(vehicleID, user string) model.VehicleService {
	return model.VehicleService{
		ID:         uuid.NewString(),
		VehicleID:  vehicleID,
		ServiceID:  a.ServiceID,
		Price:      a.Price.Round(moneyPlaces),
		IsRequired: a.IsRequired,
		Notes:      a.Notes,
		Metadata:   gModel.NewMetadata(user),
	}
}

type VehicleServiceResponse struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicle_id"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	Price       string `json:"price"`
	IsRequired  bool   `json:"is_required"`
	Notes       string `json:"notes"`
}

func (r *VehicleServiceResponse) FromModel(model model.VehicleService) {
	r.ID = model.ID
	r.VehicleID = model.VehicleID
	r.ServiceID = model.ServiceID
	r.ServiceName = model.ServiceName
	r.Price = model.Price.StringFixed(moneyPlaces)
	r.IsRequired = model.IsRequired
	r.Notes = model.Notes
}

func FromVehicleServices(models []model.VehicleService) []VehicleServiceResponse {
	res := make([]VehicleServiceResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
