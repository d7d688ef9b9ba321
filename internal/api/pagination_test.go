package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		page  int
		limit int
		ok    bool
	}{
		{query: "", page: 1, limit: 6, ok: true},
		{query: "limit=10&page=2", page: 2, limit: 10, ok: true},
		{query: "limit=0", page: 1, limit: 6, ok: true},
		{query: "limit=abc", page: 1, limit: 6, ok: true},
		{query: "limit=4611686018427387904&page=3", page: 3, limit: 50, ok: true},
		{query: "page=0", ok: false},
		{query: "page=-1", ok: false},
		{query: "page=abc", ok: false},
		{query: "page=9223372036854775807", ok: false},
		{query: "limit=50&page=184467440737095518", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/recipes/?"+tt.query, nil)

			p, ok := parsePagination(c, 6, 50)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.page, p.page)
				assert.Equal(t, tt.limit, p.limit)
				assert.GreaterOrEqual(t, p.offset(), 0)
			}
		})
	}
}

func TestPaginationValid(t *testing.T) {
	assert.True(t, pagination{page: 1, limit: 6}.valid(0))
	assert.True(t, pagination{page: 2, limit: 6}.valid(7))
	assert.False(t, pagination{page: 2, limit: 6}.valid(6))
	assert.False(t, pagination{page: 3, limit: 50}.valid(61))
}
