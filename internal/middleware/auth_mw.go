package middleware

import (
	"errors"
	"net/http"
	"strings"

	"betaware/internal/token"

	"github.com/gin-gonic/gin"
)

const ClaimsKey = "authClaims"

// AuthMiddleware extracts the bearer token and verifies it through the
// trust chain. A missing token is 401; a present but invalid or expired
// token is 403.
func AuthMiddleware(verifier token.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access token required",
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid authorization header format",
			})
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, token.ErrTokenExpired) {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": msg,
			})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the verified identity claims set by AuthMiddleware
func GetClaims(c *gin.Context) (*token.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}
