package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"municipalink/config"
	"municipalink/database"
	"municipalink/utils"
)

// Context keys set by AuthMiddleware.
const (
	KeyUserID = "userID"
	KeyEmail  = "email"
	KeyName   = "name"
	KeyRole   = "role"
	KeyDemo   = "demo"
)

// Demo identity attached to requests carrying utils.DemoToken.
const (
	DemoEmail    = "admin@test.tn"
	DemoPassword = "test1234"
	DemoName     = "Test Admin"
)

// AuthMiddleware validates JWT tokens and loads the account they name.
// Role and identity come from the stored user, so a deactivated or demoted
// account loses access before its token expires.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == utils.DemoToken && config.DemoLoginAllowed() {
			c.Set(KeyUserID, uint(0))
			c.Set(KeyEmail, DemoEmail)
			c.Set(KeyName, DemoName)
			c.Set(KeyRole, database.RoleAdmin)
			c.Set(KeyDemo, true)
			c.Next()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		var user database.User
		err = db.WithContext(c.Request.Context()).
			Select("id", "email", "name", "role", "is_active").
			First(&user, claims.UserID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			utils.Logger.WithError(err).WithField("user_id", claims.UserID).Error("Failed to load token user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account is disabled"})
			return
		}

		c.Set(KeyUserID, user.ID)
		c.Set(KeyEmail, user.Email)
		c.Set(KeyName, user.Name)
		c.Set(KeyRole, user.Role)

		c.Next()
	}
}

// RoleAuthMiddleware validates user roles
func RoleAuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(KeyRole)
		if userRole == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		for _, r := range roles {
			if r == userRole {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	}
}

// SectionAuthMiddleware admits the roles allowed to see a dashboard section.
func SectionAuthMiddleware(section string) gin.HandlerFunc {
	return RoleAuthMiddleware(SectionRoles(section)...)
}

func AdminAuthMiddleware() gin.HandlerFunc {
	return RoleAuthMiddleware(database.RoleAdmin)
}
