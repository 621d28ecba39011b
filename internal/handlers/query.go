package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/BradenHooton/emporium/internal/models"
)

// listFields names the fields a collection may be searched and sorted by
type listFields struct {
	searchFields map[string]bool
	sortFields   map[string]bool
	defaultSort  string
}

var (
	userListFields = listFields{
		searchFields: map[string]bool{"email": true, "name": true},
		sortFields:   map[string]bool{"email": true, "name": true},
		defaultSort:  "email",
	}
	productListFields = listFields{
		searchFields: map[string]bool{"product_name": true, "name": true},
		sortFields:   map[string]bool{"price": true, "stock": true, "name": true},
		defaultSort:  "price",
	}
)

// parseListQuery reads page_number, page_size, search=field:value and
// sort=field:dir from the query string.
func parseListQuery(r *http.Request, fields listFields) (models.ListQuery, error) {
	values := r.URL.Query()
	q := models.ListQuery{
		PageNumber: models.DefaultPageNumber,
		PageSize:   models.DefaultPageSize,
		SortField:  fields.defaultSort,
		SortOrder:  models.SortAsc,
	}

	if raw := values.Get("page_number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, fmt.Errorf("page_number must be a positive integer")
		}
		q.PageNumber = n
	}

	if raw := values.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, fmt.Errorf("page_size must be a positive integer")
		}
		q.PageSize = min(n, models.MaxPageSize)
	}

	if raw := values.Get("search"); raw != "" {
		field, value, ok := strings.Cut(raw, ":")
		if !ok || !fields.searchFields[field] {
			return q, fmt.Errorf("search must be field:value with field one of %s", keys(fields.searchFields))
		}
		q.SearchField = field
		q.SearchValue = value
	}

	if raw := values.Get("sort"); raw != "" {
		field, dir, _ := strings.Cut(raw, ":")
		if !fields.sortFields[field] {
			return q, fmt.Errorf("sort field must be one of %s", keys(fields.sortFields))
		}
		q.SortField = field

		switch models.SortOrder(strings.ToLower(dir)) {
		case models.SortAsc, "":
			q.SortOrder = models.SortAsc
		case models.SortDesc:
			q.SortOrder = models.SortDesc
		default:
			return q, fmt.Errorf("sort direction must be asc or desc")
		}
	}

	return q, nil
}

func keys(m map[string]bool) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return strings.Join(out, ", ")
}

// PageResponse is the JSON envelope for paginated listings
type PageResponse[T any] struct {
	PageNumber      int   `json:"page_number"`
	PageSize        int   `json:"page_size"`
	Count           int64 `json:"count"`
	TotalPages      int   `json:"total_pages"`
	HasPreviousPage bool  `json:"has_previous_page"`
	HasNextPage     bool  `json:"has_next_page"`
	Data            []T   `json:"data"`
}

func newPageResponse[M, T any](page models.Page[M], convert func(M) T) PageResponse[T] {
	data := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		data = append(data, convert(item))
	}

	return PageResponse[T]{
		PageNumber:      page.PageNumber,
		PageSize:        page.PageSize,
		Count:           page.Total,
		TotalPages:      page.TotalPages(),
		HasPreviousPage: page.HasPrevious(),
		HasNextPage:     page.HasNext(),
		Data:            data,
	}
}
