package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/pkg/httputil"
	"github.com/jwalitptl/property-api/pkg/logger"
)

// ErrorHandler renders the last error handlers attached with c.Error.
// Server-side failures are logged with the request id; client errors are not.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last().Err
		if httputil.StatusOf(last) >= http.StatusInternalServerError {
			log.Error(last, "request failed",
				"request_id", c.GetString(ContextRequestID),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
		}

		if c.Writer.Written() {
			return
		}
		httputil.RespondWithError(c, last)
	}
}
