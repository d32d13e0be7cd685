package middlewares

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/ratelimit"
)

// identifier keys the limiter by user when authenticated and by client
// address otherwise, per route.
func identifier(c *gin.Context) string {
	who := "ip:" + c.ClientIP()
	if user, ok := helper.CurrentUser(c); ok && !user.ID.IsZero() {
		who = "user:" + user.ID.Hex()
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return who + ":" + c.Request.Method + ":" + route
}

func RateLimit(limiter *ratelimit.Limiter, rule ratelimit.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := limiter.Allow(c.Request.Context(), identifier(c), rule)
		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			seconds := int(math.Ceil(result.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
