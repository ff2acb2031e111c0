// Package api contains the HTTP handlers and routing for the parking
// backend.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Context keys set by the auth middleware.
const (
	ctxUserID   = "auth_user_id"
	ctxUserRole = "auth_user_role"
)

// CORSMiddleware handles Cross-Origin Resource Sharing.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware adds a unique request ID to each request.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// JWTAuthMiddleware validates the Supabase-issued HS256 bearer token and
// stores the subject and role on the context. The role lives either in the
// top-level claim or inside user_metadata, depending on how the account
// was provisioned.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Success: false,
				Error:   "Authorization header required",
				Code:    "UNAUTHORIZED",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Success: false,
				Error:   "invalid or expired token",
				Code:    "UNAUTHORIZED",
			})
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Success: false,
				Error:   "token has no subject",
				Code:    "UNAUTHORIZED",
			})
			return
		}

		role, _ := claims["role"].(string)
		if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
			if r, ok := meta["role"].(string); ok && r != "" {
				role = r
			}
		}

		c.Set(ctxUserID, sub)
		c.Set(ctxUserRole, strings.ToLower(role))
		c.Next()
	}
}

// RequireRole rejects requests whose authenticated role is not in the
// allowed set. It must run after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(r)] = true
	}
	return func(c *gin.Context) {
		role := c.GetString(ctxUserRole)
		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Success: false,
				Error:   "insufficient role",
				Code:    "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}

// authUserID returns the authenticated user id set by JWTAuthMiddleware.
func authUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// authUserRole returns the authenticated role set by JWTAuthMiddleware.
func authUserRole(c *gin.Context) string {
	return c.GetString(ctxUserRole)
}
