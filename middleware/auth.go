package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"servicesync/models"
	"servicesync/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// JWTAuthMiddleware authenticates a bearer token and, when roles are given,
// requires the caller to hold one of them. The token hash must match the
// server-side auth cache entry, so logging out revokes tokens immediately.
func JWTAuthMiddleware(requiredRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		userID, role, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		// The cache holds the hash of the currently issued token per user.
		// A miss means the token was revoked or never issued.
		ctx := context.Background()
		cacheKey := utils.AuthCachePrefix + userID
		cachedHash, err := utils.GetAuthCacheClient().Get(ctx, cacheKey).Result()
		if err == redis.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired, please log in again",
			})
			return
		}
		if err != nil {
			utils.GetLogger().Error("auth: cache lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Authentication error",
			})
			return
		}
		if cachedHash != utils.HashToken(tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Token mismatch",
			})
			return
		}
		// Sliding window: active sessions keep their cache entry warm.
		_ = utils.GetAuthCacheClient().Expire(ctx, cacheKey, time.Hour).Err()

		if len(requiredRoles) > 0 && !roleAllowed(models.Role(role), requiredRoles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
