package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodySizeMiddleware returns middleware that limits request body size.
func MaxBodySizeMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && c.Request.ContentLength > maxBytes {
			ErrorResponse(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body too large, maximum %d bytes", maxBytes))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

const (
	MaxLimit         = 1000
	DefaultLimit     = 50
	DefaultBodyLimit = 1 * 1024 * 1024 // 1MB
)

// clampLimit bounds a caller-supplied limit to the valid range,
// substituting DefaultLimit for non-positive values.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
