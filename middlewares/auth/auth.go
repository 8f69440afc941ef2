package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/repository"
)

// AuthMiddleware validates the bearer token, loads the account behind it and
// rejects blocked accounts. On success it leaves user_id, is_admin, admin_id
// and the full user record in the context.
func AuthMiddleware(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "NO_TOKEN", "error": "No authorization token provided."})
			return
		}

		var rawToken string
		if len(authHeader) > 7 && strings.ToLower(authHeader[:7]) == "bearer " {
			rawToken = authHeader[7:]
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "INVALID_AUTH_FORMAT", "error": "Invalid authorization format."})
			return
		}

		claims, err := shared_models.ParseToken(rawToken)
		if err != nil {
			logger.WarnLogger.Warnf("Token validation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "INVALID_TOKEN", "error": "Invalid or expired token."})
			return
		}

		user, err := store.Users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.ErrorLogger.Errorf("User %d from token not found: %v", claims.UserID, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "USER_TOKEN_INVALID", "error": "User associated with token not found."})
			return
		}

		if user.IsBlocked {
			logger.WarnLogger.Warnf("Blocked user %d attempted access", user.ID)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": "ACCOUNT_BLOCKED", "error": "Account is blocked. Contact support."})
			return
		}

		c.Set("user_id", user.ID)
		c.Set("is_admin", user.IsAdmin || claims.IsAdmin)
		c.Set("admin_id", claims.AdminID)
		c.Set("authenticated_user", user)

		c.Next()
	}
}

// AdminMiddleware allows only admin sessions through. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists || isAdmin != true {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": "ADMIN_ONLY", "error": "Admin access required."})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the context.
func UserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// AdminID returns the admin identifier of the session, if any.
func AdminID(c *gin.Context) string {
	v, exists := c.Get("admin_id")
	if !exists {
		return ""
	}
	id, _ := v.(string)
	return id
}
