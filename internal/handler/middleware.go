package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const viewerIDKey = "viewer_id"

// RequireUser resolves the acting user from the X-User-ID header set by
// the upstream auth gateway. Identity verification itself is out of
// scope here.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid X-User-ID"})
			return
		}
		c.Set(viewerIDKey, id)
		c.Next()
	}
}

func viewerID(c *gin.Context) uint64 {
	return c.GetUint64(viewerIDKey)
}
