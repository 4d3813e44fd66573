package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPageOffset(t *testing.T) {
	t.Run("Defaults applied", func(t *testing.T) {
		p := Pagination{Search: "  save "}
		offset, limit := p.GetPageOffset()
		assert.Equal(t, 0, offset)
		assert.Equal(t, DefaultPageSize, limit)
		assert.Equal(t, "save", p.Search)
	})

	t.Run("Limit capped", func(t *testing.T) {
		p := Pagination{Page: 3, Limit: 500}
		offset, limit := p.GetPageOffset()
		assert.Equal(t, 200, offset)
		assert.Equal(t, MaxPageSize, limit)
	})
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
