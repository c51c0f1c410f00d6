package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"municipalink/database"
	"municipalink/utils"
)

// CreateUserRequest contains the data for a new back-office account
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin employee finance"`
	IsActive *bool  `json:"isActive"`
}

// UpdateUserRequest replaces an account's profile. An empty password keeps
// the current one.
type UpdateUserRequest struct {
	ID       FlexID `json:"id"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin employee finance"`
	IsActive *bool  `json:"isActive"`
}

// RoleRequest changes only the role of an account
type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin employee finance"`
}

// GetUsers lists accounts, newest first, or returns one when ?id= is set
func (ctl *Controller) GetUsers(c *gin.Context) {
	if c.Query("id") != "" {
		ctl.GetUser(c)
		return
	}

	q := ctl.DB.WithContext(c.Request.Context())
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	users := []database.User{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns a single account
func (ctl *Controller) GetUser(c *gin.Context) {
	id, ok := resourceID(c, 0)
	if !ok {
		badRequest(c, "Invalid user id")
		return
	}

	var user database.User
	if err := ctl.DB.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		respondError(c, notFound(err, ErrUserNotFound))
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser creates an account with a bcrypt-hashed password
func (ctl *Controller) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := database.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}

	err = ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, user.Email, 0); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return record(c, tx, database.AuditActionCreate, entityUser, user.ID, "User created: "+user.Email)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created", "id": user.ID})
}

// UpdateUser replaces an account's profile, role and active flag
func (ctl *Controller) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	id, ok := resourceID(c, req.ID)
	if !ok {
		badRequest(c, "Invalid user id")
		return
	}

	var hash string
	if req.Password != "" {
		var err error
		if hash, err = utils.HashPassword(req.Password); err != nil {
			respondError(c, err)
			return
		}
	}

	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var user database.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}

		email := normalizeEmail(req.Email)
		if err := ensureEmailFree(tx, email, user.ID); err != nil {
			return err
		}

		active := user.IsActive
		if req.IsActive != nil {
			active = *req.IsActive
		}
		if isSelf(c, user.ID) && (!active || req.Role != database.RoleAdmin) {
			return ErrSelfLockout
		}

		user.Name = strings.TrimSpace(req.Name)
		user.Email = email
		user.Role = req.Role
		user.IsActive = active
		if hash != "" {
			user.PasswordHash = hash
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return record(c, tx, database.AuditActionUpdate, entityUser, user.ID, "User updated: "+user.Email)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

// ToggleUserActive flips the active flag of an account
func (ctl *Controller) ToggleUserActive(c *gin.Context) {
	id, ok := resourceID(c, 0)
	if !ok {
		badRequest(c, "Invalid user id")
		return
	}

	var user database.User
	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}
		if isSelf(c, user.ID) && user.IsActive {
			return ErrSelfLockout
		}

		user.IsActive = !user.IsActive
		if err := tx.Model(&user).Update("is_active", user.IsActive).Error; err != nil {
			return err
		}
		state := "deactivated"
		if user.IsActive {
			state = "activated"
		}
		return record(c, tx, database.AuditActionUpdate, entityUser, user.ID, "User "+state+": "+user.Email)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUserRole changes the role of an account
func (ctl *Controller) UpdateUserRole(c *gin.Context) {
	id, ok := resourceID(c, 0)
	if !ok {
		badRequest(c, "Invalid user id")
		return
	}
	var req RoleRequest
	if !bindJSON(c, &req) {
		return
	}

	var user database.User
	err := ctl.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}
		if isSelf(c, user.ID) && req.Role != database.RoleAdmin {
			return ErrSelfLockout
		}

		user.Role = req.Role
		if err := tx.Model(&user).Update("role", user.Role).Error; err != nil {
			return err
		}
		return record(c, tx, database.AuditActionUpdate, entityUser, user.ID, "User role set to "+user.Role+": "+user.Email)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ensureEmailFree(tx *gorm.DB, email string, exceptID uint) error {
	var count int64
	q := tx.Model(&database.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

func isSelf(c *gin.Context, userID uint) bool {
	actor := actorID(c)
	return actor != nil && *actor == userID
}
