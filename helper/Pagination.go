package helper

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination reads ?page= (zero based) and ?size= from the query string.
func Pagination(c *gin.Context) repositories.Page {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "0"), 10, 64)
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.ParseInt(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)), 10, 64)
	if err != nil || size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return repositories.Page{Skip: page * size, Limit: size}
}
