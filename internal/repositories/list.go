package repositories

import (
	"strings"

	"github.com/BradenHooton/emporium/internal/models"
)

// fieldMap translates store-neutral list field names to a concrete column
// or document key.
type fieldMap map[string]string

var (
	userSearchFields = fieldMap{"email": "email", "name": "name"}
	userSortFields   = fieldMap{"email": "email", "name": "name"}

	productSearchFields = fieldMap{"name": "product_name", "product_name": "product_name"}
	productSortFields   = fieldMap{"price": "product_price", "stock": "product_stock", "name": "product_name"}
)

const (
	defaultUserSort    = "email"
	defaultProductSort = "product_price"
)

// resolveSort returns the concrete sort key and whether the order is descending.
// Unknown fields fall back to fallback.
func resolveSort(q models.ListQuery, fields fieldMap, fallback string) (string, bool) {
	key, ok := fields[q.SortField]
	if !ok {
		key = fallback
	}
	return key, q.SortOrder == models.SortDesc
}

// resolveSearch returns the concrete key to filter on, or "" when the query
// carries no usable search.
func resolveSearch(q models.ListQuery, fields fieldMap) string {
	if q.SearchValue == "" {
		return ""
	}
	return fields[q.SearchField]
}

// escapeLike escapes ILIKE wildcards so search input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
