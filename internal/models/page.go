package models

// Page is one page of an ordered result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// BeerPagedList is the list response of the beer endpoints.
type BeerPagedList = Page[BeerDto]

// NewPage builds a page and derives TotalPages. Content longer than pageSize is truncated.
func NewPage[T any](content []T, pageNumber, pageSize int, totalElements int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	if pageSize > 0 && len(content) > pageSize {
		content = content[:pageSize]
	}
	return Page[T]{
		Content:       content,
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		TotalElements: totalElements,
		TotalPages:    TotalPages(totalElements, pageSize),
	}
}

// TotalPages returns ceil(totalElements / pageSize), or 0 when pageSize is not positive.
func TotalPages(totalElements int64, pageSize int) int {
	if pageSize <= 0 || totalElements <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((totalElements + size - 1) / size)
}
