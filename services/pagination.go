package services

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"hermexpress-io/api/helper"
)

// GetPaginationArgs reads limit/skip/sort query params with safe defaults.
func GetPaginationArgs(c *gin.Context) helper.PaginationArgs {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}

	return helper.PaginationArgs{
		Limit: limit,
		Skip:  skip,
		Sort:  c.DefaultQuery("sort", "desc"),
	}
}
