package middleware

import (
	"net/http"
	"strings"

	"sportzone/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware requires a valid Bearer token and sets userID and role on
// the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := actorFromHeader(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

// OptionalAuthMiddleware sets userID and role when a valid token is present
// and lets the request through either way. Guest booking rides on this.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, role, ok := actorFromHeader(c); ok {
			c.Set("userID", userID)
			c.Set("role", role)
		}
		c.Next()
	}
}

// RequireRole gates a route to callers carrying one of the given roles. Must
// run after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
			"code":  0,
		})
	}
}

func actorFromHeader(c *gin.Context) (userID, role string, ok bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", "", false
	}
	userID, role, err := utils.ExtractActorFromToken(tokenString)
	if err != nil || userID == "" {
		return "", "", false
	}
	return userID, role, true
}
