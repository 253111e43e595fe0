package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantPage     int
		wantPageSize int
	}{
		{name: "defaults", target: "/admin/sessions", wantPage: 1, wantPageSize: 20},
		{name: "explicit values", target: "/admin/sessions?page=3&page_size=50", wantPage: 3, wantPageSize: 50},
		{name: "page size clamped", target: "/admin/sessions?page_size=999", wantPage: 1, wantPageSize: 100},
		{name: "garbage falls back", target: "/admin/sessions?page=abc&page_size=-1", wantPage: 1, wantPageSize: 20},
		{name: "zero page falls back", target: "/admin/sessions?page=0", wantPage: 1, wantPageSize: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ParsePagination(httptest.NewRequest("GET", tt.target, nil))
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantPageSize, params.PageSize)
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(2, 20, 45)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.PageSize)
	assert.Equal(t, 45, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Equal(t, 0, NewPaginationMeta(1, 0, 45).TotalPages)
	assert.Equal(t, 0, NewPaginationMeta(1, 20, 0).TotalPages)
}
