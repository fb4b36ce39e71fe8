package model

import (
	"prestige/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "vehicles"
	EntityName = "vehicle"

	FieldID            = "id"
	FieldBrand         = "brand"
	FieldName          = "name"
	FieldBodyType      = "body_type"
	FieldDailyPrice    = "daily_price"
	FieldDescription   = "description"
	FieldIsAvailable   = "is_available"
	FieldAverageRating = "average_rating"
	FieldReviewCount   = "review_count"
)

// Cache prefixes shared with the rating aggregator, which rewrites the cached
// rating columns outside the vehicle service.
const (
	CacheKeyGet     = "vehicle:get"
	CacheKeyGetAll  = "vehicle:gets"
	CacheKeyCount   = "vehicle:count"
	CacheKeySimilar = "vehicle:similar"
)

const SimilarLimit = 6

type Vehicle struct {
	ID            string          `db:"id"`
	Brand         string          `db:"brand"`
	Name          string          `db:"name"`
	BodyType      string          `db:"body_type"`
	DailyPrice    decimal.Decimal `db:"daily_price"`
	Description   string          `db:"description"`
	IsAvailable   bool            `db:"is_available"`
	AverageRating decimal.Decimal `db:"average_rating"`
	ReviewCount   int             `db:"review_count"`
	MainImage     *string         `db:"main_image" table:"vehicle_images" column:"image_url"`
	model.Metadata
}

func (Vehicle) GetJoinQuery() string {
	return "LEFT JOIN vehicle_images ON vehicle_images.vehicle_id = vehicles.id AND vehicle_images.is_main = TRUE"
}

// Orderings maps the public ordering keys to columns.
var Orderings = map[string]string{
	"price":          TableName + "." + FieldDailyPrice,
	"name":           TableName + "." + FieldName,
	"average_rating": TableName + "." + FieldAverageRating,
}

const DefaultOrdering = "price"
