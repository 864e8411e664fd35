package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID tags every request with a correlation ID, honoring one
// supplied by the client or an upstream proxy.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the request's correlation ID, or "" outside
// the RequestID middleware.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
