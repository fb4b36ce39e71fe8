package model

import "prestige/shared/model"

const (
	TableName  = "vehicle_images"
	EntityName = "vehicle_image"

	FieldID          = "id"
	FieldVehicleID   = "vehicle_id"
	FieldImageURL    = "image_url"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldIsMain      = "is_main"
	FieldIsActive    = "is_active"
	FieldSortOrder   = "sort_order"
)

const CacheKeyGetAll = "vehicle_image:gets"

// StorageDirectory is the object storage folder for vehicle photos.
const StorageDirectory = "vehicles"

type VehicleImage struct {
	ID          string `db:"id"`
	VehicleID   string `db:"vehicle_id"`
	ImageURL    string `db:"image_url"`
	Title       string `db:"title"`
	Description string `db:"description"`
	IsMain      bool   `db:"is_main"`
	IsActive    bool   `db:"is_active"`
	SortOrder   int    `db:"sort_order"`
	model.Metadata
}
