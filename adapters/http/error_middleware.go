package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

// ErrorMiddleware renders the last error a handler attached with c.Error.
// Validation failures become {errors: [...]}, other client errors {msg},
// and anything at or above 500 a plain "Server Error" body.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var verr *apperror.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, verr.ToJSON())
			return
		}

		status := apperror.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("Unhandled request error", err,
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path))
			c.String(status, "Server Error")
			return
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(status, appErr.ToJSON())
			return
		}
		c.JSON(status, gin.H{"msg": err.Error()})
	}
}
