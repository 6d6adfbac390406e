// Package requestid tags each request with an identifier so log lines for
// one request can be correlated across middleware and handlers.
package requestid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	header = "X-Request-ID"
	ctxKey = "request_id"
)

// Middleware reuses an inbound X-Request-ID when the client sent one and
// mints a fresh one otherwise. The ID is stored on the Gin context and
// echoed back on the response.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = newID()
		}

		c.Set(ctxKey, id)
		c.Writer.Header().Set(header, id)

		c.Next()
	}
}

// Value returns the current request's ID, or "" when the middleware is not
// installed.
func Value(c *gin.Context) string {
	v, ok := c.Get(ctxKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

func newID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// Keep the request traceable even when the entropy source fails.
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
