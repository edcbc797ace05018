package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenValidator checks a bearer token and returns its subject.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// AdminKey is the context key holding the authenticated admin's email.
const AdminKey = "admin"

// AuthMiddleware rejects requests without a valid "Authorization: Bearer" token.
func AuthMiddleware(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required", "error": true})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token format (must be Bearer)", "error": true})
			return
		}

		// 2. --- Validate Token ---
		subject, err := v.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token", "error": true})
			return
		}

		// 3. --- Success ---
		c.Set(AdminKey, subject)
		c.Next()
	}
}
