package dto_test

import (
	"net/http/httptest"
	"prestige/shared/constant"
	"prestige/shared/dto"
	"prestige/shared/model"
	"prestige/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.Equal(t, timezone.Format(createdAt, constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, timezone.Format(modifiedAt, constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.ModifiedBy)
}

func TestMetadata_FromModel_ZeroStamps(t *testing.T) {
	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{CreatedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)})

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.Empty(t, metadata.ModifiedAt)
	assert.Empty(t, metadata.CreatedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=name&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortDir: dto.SortDirAsc},
		},
		{
			name:     "limit capped",
			query:    "limit=5000",
			expected: dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:           "defaults when empty",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults when disabled",
			expected: dto.QueryParams{},
		},
		{
			name:           "invalid numbers fall back to defaults",
			query:          "page=-1&limit=abc&sort_dir=sideways",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/vehicles?"+tt.query, nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_ApplyOrdering(t *testing.T) {
	columns := map[string]string{
		"price": "vehicles.daily_price",
		"name":  "vehicles.name",
	}

	tests := []struct {
		name     string
		ordering string
		sortBy   string
		sortDir  string
	}{
		{name: "ascending", ordering: "name", sortBy: "vehicles.name", sortDir: dto.SortDirAsc},
		{name: "descending", ordering: "-price", sortBy: "vehicles.daily_price", sortDir: dto.SortDirDesc},
		{name: "unknown key uses fallback", ordering: "id; DROP TABLE vehicles", sortBy: "vehicles.daily_price", sortDir: dto.SortDirAsc},
		{name: "empty uses fallback", ordering: "", sortBy: "vehicles.daily_price", sortDir: dto.SortDirAsc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := dto.QueryParams{SortBy: "injected", SortDir: dto.SortDirDesc}
			params.ApplyOrdering(tt.ordering, columns, "price")

			assert.Equal(t, tt.sortBy, params.SortBy)
			assert.Equal(t, tt.sortDir, params.SortDir)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "is_available", Value: true, Operator: dto.FilterOperatorEq, Table: "vehicles"},
			dto.Filter{ArgName: "min_price", Field: "daily_price", Value: 100, Operator: dto.FilterOperatorGreaterEq, Table: "vehicles"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "search_name", Field: "name", Value: "model", Operator: dto.FilterOperatorLike, Table: "vehicles"},
					dto.Filter{ArgName: "search_brand", Field: "brand", Value: "model", Operator: dto.FilterOperatorLike, Table: "vehicles"},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(vehicles.is_available = :is_available AND vehicles.daily_price >= :min_price AND "+
		"(LOWER(vehicles.name) LIKE LOWER(:search_name) OR LOWER(vehicles.brand) LIKE LOWER(:search_brand)))", where)
	assert.Equal(t, map[string]any{
		"is_available": true,
		"min_price":    100,
		"search_name":  "%model%",
		"search_brand": "%model%",
	}, args)
}

func TestFilter_InOperator(t *testing.T) {
	filter := dto.Filter{Field: "id", Value: []string{"a", "b"}, Operator: dto.FilterOperatorIn, Table: "vehicle_services"}

	where, args := filter.GetWhereClause()

	assert.Equal(t, "vehicle_services.id IN (:id_0, :id_1)", where)
	assert.Equal(t, map[string]any{"id_0": "a", "id_1": "b"}, args)

	empty := dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorIn}
	where, args = empty.GetWhereClause()

	assert.Equal(t, "FALSE", where)
	assert.Empty(t, args)
}

func TestFilterGroup_DefaultsToAnd(t *testing.T) {
	group := dto.FilterGroup{}
	group.And(
		dto.Filter{Field: "is_public", Value: true, Operator: dto.FilterOperatorEq, Table: "reviews"},
		dto.Filter{Field: "rating", Value: 3, Operator: "unknown"},
		dto.Filter{Field: "is_moderated", Value: true, Operator: dto.FilterOperatorEq, Table: "reviews"},
	)

	where, args := group.GetWhereClause()

	assert.Equal(t, "(reviews.is_public = :is_public AND reviews.is_moderated = :is_moderated)", where)
	assert.Equal(t, map[string]any{"is_public": true, "is_moderated": true}, args)
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{}

	where, args := group.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
