package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"thinkprofit-api/utils"
)

const (
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// RequireAuth verifies the bearer token and stores the verified identity
// in the request context. Handlers must use GetUserID/GetUserRole rather
// than any client-supplied user field.
func RequireAuth(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		userID, role, err := tokens.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUserRole, role)
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func GetUserRole(c *gin.Context) string {
	return c.GetString(ctxUserRole)
}
