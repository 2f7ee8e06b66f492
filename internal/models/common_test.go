package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, Pagination{Page: 2, PageSize: 2, TotalCount: 5}, *meta)

	page, _ = Paginate(items, 3, 2)
	assert.Equal(t, []int{5}, page)

	page, meta = Paginate(items, 0, 0)
	assert.Equal(t, items, page)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 20, meta.PageSize)
}

func TestPaginateOutOfRange(t *testing.T) {
	items := []int{1, 2, 3}

	for _, page := range []int{4, 1 << 62, math.MaxInt} {
		got, meta := Paginate(items, page, 20)
		assert.Empty(t, got, "page %d", page)
		assert.Equal(t, 3, meta.TotalCount)
	}

	got, _ := Paginate(items, 2, 3)
	assert.Empty(t, got)

	got, meta := Paginate(items, 1, math.MaxInt)
	assert.Equal(t, items, got)
	assert.Equal(t, MaxPageSize, meta.PageSize)
}
