package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity arrives from the upstream auth layer via trusted headers. The
// core performs no authentication itself.
const (
	userIDHeader   = "X-User-Id"
	userRoleHeader = "X-User-Role"

	userIDKey   = "userID"
	userRoleKey = "userRole"

	roleUser  = "user"
	roleAdmin = "admin"
)

func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}
		c.Set(userIDKey, userID)
		c.Set(userRoleKey, c.GetHeader(userRoleHeader))
		c.Next()
	}
}

func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
	}
}
