package services

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestGetPaginationArgsDefaults(t *testing.T) {
	args := GetPaginationArgs(paginationContext(t, ""))
	assert.Equal(t, 10, args.Limit)
	assert.Equal(t, 0, args.Skip)
	assert.Equal(t, "desc", args.Sort)
}

func TestGetPaginationArgsBounds(t *testing.T) {
	args := GetPaginationArgs(paginationContext(t, "limit=500&skip=-3"))
	assert.Equal(t, 10, args.Limit)
	assert.Equal(t, 0, args.Skip)

	args = GetPaginationArgs(paginationContext(t, "limit=25&skip=50&sort=asc"))
	assert.Equal(t, 25, args.Limit)
	assert.Equal(t, 50, args.Skip)
	assert.Equal(t, "asc", args.Sort)
}
