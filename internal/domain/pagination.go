package domain

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginationFilter is bound from the query string of the paged endpoints.
type PaginationFilter struct {
	PageNumber   int    `form:"pageNumber" json:"pageNumber"`
	PageSize     int    `form:"pageSize" json:"pageSize"`
	SearchQuery  string `form:"searchQuery" json:"searchQuery,omitempty"`
	SortBy       string `form:"sortBy" json:"sortBy,omitempty"`
	IsDescending bool   `form:"isDescending" json:"isDescending"`
}

// Normalize fills defaults and clamps the page size.
func (f PaginationFilter) Normalize() PaginationFilter {
	if f.PageNumber < 1 {
		f.PageNumber = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

func (f PaginationFilter) Offset() int { return (f.PageNumber - 1) * f.PageSize }

type PaginatedResult[T any] struct {
	Data         []T   `json:"data"`
	TotalRecords int64 `json:"totalRecords"`
	PageSize     int   `json:"pageSize"`
	CurrentPage  int   `json:"currentPage"`
}
