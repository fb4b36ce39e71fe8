package vehicle

import (
	"net/http"
	"prestige/internal/domains/vehicle/model"
	"prestige/shared"
	gDto "prestige/shared/dto"
	"prestige/shared/failure"

	"github.com/shopspring/decimal"
)

const (
	queryBrand     = "brand"
	queryType      = "type"
	queryMinPrice  = "min_price"
	queryMaxPrice  = "max_price"
	querySearch    = "search"
	queryAvailable = "available"
)

// catalogueFilter turns the catalogue query string into a filter group. Price
// bounds are inclusive; search matches name or brand.
func catalogueFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if brand := query.Get(queryBrand); brand != "" {
		filterGroup.And(gDto.Filter{
			Field:    model.FieldBrand,
			Operator: gDto.FilterOperatorLike,
			Value:    brand,
			Table:    model.TableName,
		})
	}

	if bodyType := query.Get(queryType); bodyType != "" {
		filterGroup.And(gDto.Filter{
			Field:    model.FieldBodyType,
			Operator: gDto.FilterOperatorLike,
			Value:    bodyType,
			Table:    model.TableName,
		})
	}

	bounds := []struct {
		param    string
		operator string
	}{
		{param: queryMinPrice, operator: gDto.FilterOperatorGreaterEq},
		{param: queryMaxPrice, operator: gDto.FilterOperatorLessEq},
	}

	for _, bound := range bounds {
		raw := query.Get(bound.param)
		if raw == "" {
			continue
		}

		price, err := decimal.NewFromString(raw)
		if err != nil {
			return gDto.FilterGroup{}, failure.BadRequestFromString(bound.param + " must be a number")
		}

		filterGroup.And(gDto.Filter{
			ArgName:  bound.param,
			Field:    model.FieldDailyPrice,
			Operator: bound.operator,
			Value:    price,
			Table:    model.TableName,
		})
	}

	if search := query.Get(querySearch); search != "" {
		filterGroup.And(gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{ArgName: "search_name", Field: model.FieldName, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName},
				gDto.Filter{ArgName: "search_brand", Field: model.FieldBrand, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName},
			},
		})
	}

	if available := shared.ConvertStringToBool(query.Get(queryAvailable)); available != nil {
		filterGroup.And(gDto.Filter{
			Field:    model.FieldIsAvailable,
			Operator: gDto.FilterOperatorEq,
			Value:    *available,
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}
