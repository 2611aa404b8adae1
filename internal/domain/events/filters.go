package events

import "net/url"

// Pseudo-categories are client-side tabs; they never match a stored row.
const (
	CategoryAll       = "Все"
	CategoryFavorites = "Избранное"
)

func IsPseudoCategory(category string) bool {
	return category == CategoryAll || category == CategoryFavorites
}

// ParseFilters reads the category and search parameters of a request.
// Values are used exactly as sent; only empty values and pseudo-categories
// are dropped. A nil map is treated as no parameters.
func ParseFilters(params map[string]string) Filters {
	filters := Filters{}

	if category := params["category"]; category != "" && !IsPseudoCategory(category) {
		filters.Category = category
	}

	filters.Search = params["search"]
	return filters
}

// QueryParams flattens url.Values to the first value per key.
func QueryParams(values url.Values) map[string]string {
	if len(values) == 0 {
		return nil
	}
	params := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}
