package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{0, 1},
		{1, 1},
		{12, 1},
		{13, 2},
		{24, 2},
		{25, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, PageSize), "total=%d", tt.total)
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 30)
	for i := range items {
		items[i] = i
	}

	assert.Equal(t, items[:12], Paginate(items, 1, 12))
	assert.Equal(t, items[12:24], Paginate(items, 2, 12))
	assert.Equal(t, items[24:], Paginate(items, 3, 12))
	assert.Empty(t, Paginate(items, 4, 12))
	assert.NotNil(t, Paginate(items, 4, 12))

	page := Paginate(items, 1, 12)
	page[0] = 99
	assert.Equal(t, 0, items[0], "page must not alias the source slice")
}
