package pagination_test

import (
	"testing"

	"github.com/lubetrack/lubetrack-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
)

func TestPaginationParams_Validate(t *testing.T) {
	cases := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"zero values fall back to defaults", 0, 0, 1, 15},
		{"negative page clamps to first", -3, 20, 1, 20},
		{"per page caps at 100", 2, 500, 2, 100},
		{"valid values pass through", 3, 25, 3, 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := &pagination.PaginationParams{Page: tc.page, PerPage: tc.perPage}
			params.Validate()

			assert.Equal(t, tc.wantPage, params.Page)
			assert.Equal(t, tc.wantPerPage, params.PerPage)
		})
	}
}

func TestPaginationParams_Offset(t *testing.T) {
	params := &pagination.PaginationParams{Page: 3, PerPage: 15}
	assert.Equal(t, 30, params.Offset())

	params = &pagination.PaginationParams{Page: 1, PerPage: 15}
	assert.Equal(t, 0, params.Offset())
}

func TestNewPagination(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		pag := pagination.NewPagination(2, 15, 31)

		assert.Equal(t, 3, pag.TotalPages)
		assert.True(t, pag.HasNext)
		assert.True(t, pag.HasPrev)
	})

	t.Run("single page", func(t *testing.T) {
		pag := pagination.NewPagination(1, 15, 10)

		assert.Equal(t, 1, pag.TotalPages)
		assert.False(t, pag.HasNext)
		assert.False(t, pag.HasPrev)
	})

	t.Run("empty result", func(t *testing.T) {
		pag := pagination.NewPagination(1, 15, 0)

		assert.Equal(t, 0, pag.TotalPages)
		assert.False(t, pag.HasNext)
		assert.False(t, pag.HasPrev)
	})
}
