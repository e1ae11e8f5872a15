package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
		wantSkip  int
	}{
		{"defaults", "", "", 1, 10, 0},
		{"explicit", "3", "25", 3, 25, 50},
		{"garbage falls back", "abc", "-5", 1, 10, 0},
		{"zero page falls back", "0", "10", 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := ParsePagination(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, pg.Page)
			assert.Equal(t, tt.wantLimit, pg.Limit)
			assert.Equal(t, tt.wantSkip, pg.Skip)
		})
	}
}

func TestTotalPages(t *testing.T) {
	pg := Pagination{Page: 1, Limit: 10}
	assert.EqualValues(t, 0, pg.TotalPages(0))
	assert.EqualValues(t, 1, pg.TotalPages(1))
	assert.EqualValues(t, 1, pg.TotalPages(10))
	assert.EqualValues(t, 2, pg.TotalPages(11))
	assert.EqualValues(t, 10, pg.TotalPages(95))
}
