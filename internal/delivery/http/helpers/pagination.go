package helpers

import (
	"net/http"
	"strconv"

	"github.com/morsig01/treningsglede/internal/domain"
)

// Defaults and cap for the page and page_size query parameters.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the query string. Missing,
// unparsable, or non-positive values fall back to the defaults; page_size
// is capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	params := domain.PaginationParams{Page: DefaultPage, PageSize: DefaultPageSize}
	if v, ok := positiveQueryInt(r, "page"); ok {
		params.Page = v
	}
	if v, ok := positiveQueryInt(r, "page_size"); ok {
		params.PageSize = min(v, MaxPageSize)
	}
	return params
}

func positiveQueryInt(r *http.Request, name string) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// PaginationMeta is the pagination block of paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta derives TotalPages as ceiling(total / pageSize); a zero
// pageSize yields zero TotalPages.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
