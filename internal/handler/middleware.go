package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// Identity resolves the caller from the X-User-ID header set by the edge
// proxy after authentication. Routes behind this middleware reject
// requests without it.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the identity set by the Identity middleware.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
