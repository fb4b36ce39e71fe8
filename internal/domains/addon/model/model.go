package model

import (
	"prestige/shared/model"

	"github.com/shopspring/decimal"
)

const (
	ServiceTableName  = "services"
	ServiceEntityName = "service"

	VehicleServiceTableName  = "vehicle_services"
	VehicleServiceEntityName = "vehicle_service"
)

const (
	FieldID           = "id"
	FieldName         = "name"
	FieldVehicleID    = "vehicle_id"
	FieldServiceID    = "service_id"
	FieldIsRequired   = "is_required"
	FieldServicePrice = "price"
)

const (
	CacheKeyGetAllServices  = "service:gets"
	CacheKeyVehicleServices = "service:vehicle"
)

type Service struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	model.Metadata
}

// VehicleService attaches a Service to a vehicle with its own price.
type VehicleService struct {
	ID          string          `db:"id"`
	VehicleID   string          `db:"vehicle_id"`
	ServiceID   string          `db:"service_id"`
	Price       decimal.Decimal `db:"price"`
	IsRequired  bool            `db:"is_required"`
	Notes       string          `db:"notes"`
	ServiceName string          `db:"service_name" table:"services" column:"name"`
	model.Metadata
}

func (VehicleService) GetJoinQuery() string {
	return "INNER JOIN services ON services.id = vehicle_services.service_id"
}

// TotalPrice sums the add-on prices of the given vehicle services.
func TotalPrice(services []VehicleService) decimal.Decimal {
	total := decimal.Zero
	for _, service := range services {
		total = total.Add(service.Price)
	}

	return total
}

// ServiceOrderings maps the public ordering keys of the service list to columns.
var ServiceOrderings = map[string]string{
	"name": ServiceTableName + "." + FieldName,
}

const DefaultServiceOrdering = "name"
