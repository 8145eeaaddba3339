package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tolgee/tolgee-backend/internal/platform/ctxutil"
)

const headerAuthorID = "X-Author-Id"

// AttachAuthor reads the acting user id set by the upstream gateway and puts
// it on the request context. Missing or malformed ids are ignored.
func AttachAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerAuthorID))
		if raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				c.Request = c.Request.WithContext(ctxutil.WithAuthorID(c.Request.Context(), id))
			}
		}
		c.Next()
	}
}
