package dto

import (
	"net/http"
	"prestige/shared/constant"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

const orderingDescPrefix = "-"

// QueryParams carries pagination and ordering into Repository.GetAll. SortBy
// ends up in ORDER BY verbatim, so it is only ever set from a whitelist.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit and sort_dir. Invalid values are ignored and
// limit is capped at constant.MaxValueLimit. With defaults set, missing page
// and limit get constant.DefaultValuePage and constant.DefaultValueLimit.
func (q *QueryParams) FromRequest(r *http.Request, defaults bool) {
	values := r.URL.Query()

	if page, ok := positiveInt(values.Get(constant.RequestParamPage)); ok {
		q.Page = page
	}

	if limit, ok := positiveInt(values.Get(constant.RequestParamLimit)); ok {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !defaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// ApplyOrdering resolves a public ordering key such as "price" or "-price"
// against columns. Unknown keys fall back to fallback.
func (q *QueryParams) ApplyOrdering(ordering string, columns map[string]string, fallback string) {
	key := ordering
	if _, ok := columns[strings.TrimPrefix(key, orderingDescPrefix)]; !ok {
		key = fallback
	}

	q.SortDir = SortDirAsc
	if strings.HasPrefix(key, orderingDescPrefix) {
		q.SortDir = SortDirDesc
	}

	q.SortBy = columns[strings.TrimPrefix(key, orderingDescPrefix)]
}

func positiveInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}
