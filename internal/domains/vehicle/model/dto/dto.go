package dto

import (
	"errors"
	addonDto "prestige/internal/domains/addon/model/dto"
	"prestige/internal/domains/vehicle/model"
	"prestige/shared"
	gDto "prestige/shared/dto"
	gModel "prestige/shared/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var errNonPositivePrice = errors.New("daily_price must be greater than 0")

type CreateVehicleRequest struct {
	Brand       string          `json:"brand"        validate:"required,max=50"`
	Name        string          `json:"name"         validate:"required,max=100"`
	BodyType    string          `json:"body_type"    validate:"required,max=50"`
	DailyPrice  decimal.Decimal `json:"daily_price"  swaggertype:"string"`
	Description string          `json:"description"  validate:"omitempty"`
	IsAvailable *bool           `json:"is_available" validate:"omitempty"`
}

func (c *CreateVehicleRequest) Validate() error {
	if !c.DailyPrice.IsPositive() {
		return errNonPositivePrice
	}

	return nil
}

func (c *CreateVehicleRequest) ToModel(user string) model.Vehicle {
	available := true
	if c.IsAvailable != nil {
		available = *c.IsAvailable
	}

	return model.Vehicle{
		ID:            uuid.NewString(),
		Brand:         c.Brand,
		Name:          c.Name,
		BodyType:      c.BodyType,
		DailyPrice:    c.DailyPrice.Round(moneyPlaces),
		Description:   c.Description,
		IsAvailable:   available,
		AverageRating: decimal.Zero,
		Metadata:      gModel.NewMetadata(user),
	}
}

type UpdateVehicleRequest struct {
	Brand       *string          `db:"brand"        json:"brand"        validate:"omitempty,max=50"`
	Name        *string          `db:"name"         json:"name"         validate:"omitempty,max=100"`
	BodyType    *string          `db:"body_type"    json:"body_type"    validate:"omitempty,max=50"`
	DailyPrice  *decimal.Decimal `db:"daily_price"  json:"daily_price"  swaggertype:"string"`
	Description *string          `db:"description"  json:"description"`
	IsAvailable *bool            `db:"is_available" json:"is_available"`
}

func (u *UpdateVehicleRequest) IsEmpty() bool {
	return u.Brand == nil && u.Name == nil && u.BodyType == nil && u.DailyPrice == nil &&
		u.Description == nil && u.IsAvailable == nil
}

func (u *UpdateVehicleRequest) Validate() error {
	if u.DailyPrice != nil && !u.DailyPrice.IsPositive() {
		return errNonPositivePrice
	}

	return nil
}

type VehicleResponse struct {
	ID            string                            `json:"id"`
	Brand         string                            `json:"brand"`
	Name          string                            `json:"name"`
	BodyType      string                            `json:"body_type"`
	DailyPrice    string                            `json:"daily_price"`
	Description   string                            `json:"description"`
	IsAvailable   bool                              `json:"is_available"`
	AverageRating string                            `json:"average_rating"`
	ReviewCount   int                               `json:"review_count"`
	MainImage     *string                           `json:"main_image,omitempty"`
	Services      []addonDto.VehicleServiceResponse `json:"services,omitempty"`
	gDto.Metadata
}

func (r *VehicleResponse) FromModel(model model.Vehicle) {
	r.ID = model.ID
	r.Brand = model.Brand
	r.Name = model.Name
	r.BodyType = model.BodyType
	r.DailyPrice = model.DailyPrice.StringFixed(moneyPlaces)
	r.Description = model.Description
	r.IsAvailable = model.IsAvailable
	r.AverageRating = model.AverageRating.StringFixed(moneyPlaces)
	r.ReviewCount = model.ReviewCount
	r.MainImage = model.MainImage
	r.Metadata.FromModel(model.Metadata)
}

type GetVehiclesResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVehiclesResponse) FromModels(models []model.Vehicle, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Vehicles = FromModels(models)
}

func FromModels(models []model.Vehicle) []VehicleResponse {
	res := make([]VehicleResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
