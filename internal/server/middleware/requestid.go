package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDHeader is the header carrying the request correlation id.
const requestIDHeader = "X-Request-Id"

// requestIDKey is the Gin context key the request logger reads the id from.
const requestIDKey = "request_id"

// RequestID tags every request with a correlation id, reusing the one the
// client sent when present so ids stay stable across proxies. The id is
// echoed on the response and exposed to the request logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
