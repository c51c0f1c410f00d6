package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"municipalink/config"
	"municipalink/database"
	"municipalink/middleware"
	"municipalink/utils"
)

// LoginRequest contains the credentials for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the structure returned after login
type LoginResponse struct {
	Success bool          `json:"success"`
	Token   string        `json:"token"`
	User    database.User `json:"user"`
	Expiry  int64         `json:"expiry"`
}

func demoUser() gin.H {
	return gin.H{
		"id":       "0",
		"name":     middleware.DemoName,
		"email":    middleware.DemoEmail,
		"role":     database.RoleAdmin,
		"isActive": true,
	}
}

// Login handles user authentication and returns a JWT token. The demo
// credentials only short-circuit the user table when the demo login is
// enabled outside production.
func (ctl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing credentials"})
		return
	}

	if config.DemoLoginAllowed() && req.Email == middleware.DemoEmail && req.Password == middleware.DemoPassword {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"user":    demoUser(),
			"token":   utils.DemoToken,
		})
		return
	}

	var user database.User
	err := ctl.DB.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Account is disabled"})
		return
	}

	expiryTime := time.Now().Add(config.GetJWTExpiration())
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Name, user.Role, expiryTime)
	if err != nil {
		respondError(c, err)
		return
	}

	loginAt := ctl.now()
	if err := ctl.DB.WithContext(c.Request.Context()).Model(&user).Update("last_login", loginAt).Error; err != nil {
		utils.Logger.WithError(err).Warn("Failed to update last login time")
	} else {
		user.LastLogin = &loginAt
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Token:   token,
		User:    user,
		Expiry:  expiryTime.Unix(),
	})
}

// Me returns the authenticated user and the dashboard sections its role
// may open.
func (ctl *Controller) Me(c *gin.Context) {
	role := c.GetString(middleware.KeyRole)
	if c.GetBool(middleware.KeyDemo) {
		c.JSON(http.StatusOK, gin.H{"user": demoUser(), "sections": middleware.SectionsFor(role)})
		return
	}

	user, ok := ctl.activeUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "sections": middleware.SectionsFor(user.Role)})
}

// RefreshToken issues a fresh token for a still-active user
func (ctl *Controller) RefreshToken(c *gin.Context) {
	if c.GetBool(middleware.KeyDemo) {
		c.JSON(http.StatusOK, gin.H{"token": utils.DemoToken})
		return
	}

	user, ok := ctl.activeUser(c)
	if !ok {
		return
	}

	expiryTime := time.Now().Add(config.GetJWTExpiration())
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Name, user.Role, expiryTime)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"expiry": expiryTime.Unix(),
	})
}

// activeUser loads the token's user, answering 401 itself when the account
// is gone or disabled.
func (ctl *Controller) activeUser(c *gin.Context) (database.User, bool) {
	var user database.User
	id := c.GetUint(middleware.KeyUserID)
	if err := ctl.DB.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		} else {
			respondError(c, err)
		}
		return user, false
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is disabled"})
		return user, false
	}
	return user, true
}
