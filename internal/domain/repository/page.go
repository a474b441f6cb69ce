package repository

// SortField names a sortable user attribute
type SortField string

const (
	SortByID        SortField = "id"
	SortByUsername  SortField = "username"
	SortByEmail     SortField = "email"
	SortByFirstName SortField = "first_name"
	SortByLastName  SortField = "last_name"
	SortByRole      SortField = "role"
	SortByCreatedAt SortField = "created_at"
)

// PageRequest is a 0-based page window with a single sort key.
type PageRequest struct {
	Page int
	Size int
	Sort SortField
	Desc bool
}

func (p PageRequest) Offset() int { return p.Page * p.Size }

// Page is a total-count-aware slice of results.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Size  int
}

func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
