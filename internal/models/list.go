package models

import "math"

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 5
	MaxPageSize       = 100
)

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListQuery describes one page of a filtered, sorted collection.
// SearchField and SortField hold store-neutral field names ("email", "name",
// "price", "stock"); repositories translate them to columns or document keys.
type ListQuery struct {
	PageNumber  int
	PageSize    int
	SearchField string
	SearchValue string
	SortField   string
	SortOrder   SortOrder
}

// Offset returns the number of records preceding the requested page.
// It saturates at math.MaxInt so a page far past the end reads as empty.
func (q ListQuery) Offset() int {
	if q.PageNumber < 1 || q.PageSize < 1 {
		return 0
	}
	if q.PageNumber-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.PageNumber - 1) * q.PageSize
}

// Page is one slice of a paginated listing plus the size of the full match set.
type Page[T any] struct {
	Items      []T
	PageNumber int
	PageSize   int
	Total      int64
}

// TotalPages rounds up so a partial final page still counts.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

func (p Page[T]) HasPrevious() bool {
	return p.PageNumber > 1
}

func (p Page[T]) HasNext() bool {
	return p.PageNumber < p.TotalPages()
}
