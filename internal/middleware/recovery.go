package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/pkg/httputil"
	"github.com/jwalitptl/property-api/pkg/logger"
)

// Recovery handles panics and logs them with the stack
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error(fmt.Errorf("panic: %v", rec), "Request panic recovered",
					"stack", string(debug.Stack()),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(ContextRequestID),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					httputil.NewErrorResponse(http.StatusInternalServerError, "internal server error"))
			}
		}()
		c.Next()
	}
}
