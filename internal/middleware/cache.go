package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PublicCache marks GET responses as cacheable by shared caches
// for maxAge seconds. Used on the anonymous marketplace routes only.
func PublicCache(maxAge int) gin.HandlerFunc {
	value := "public, max-age=" + strconv.Itoa(maxAge)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		c.Header("Cache-Control", value)
		c.Header("Vary", "Accept")
		c.Next()
	}
}

// NoStore keeps authenticated responses out of every cache.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
