package database

import (
	"fmt"

	"gorm.io/gorm"

	"municipalink/utils"
)

// RunMigrations runs all database migrations
func RunMigrations(db *gorm.DB) error {
	utils.Logger.Info("Running database migrations...")

	if err := db.AutoMigrate(
		&User{},
		&Bien{},
		&Location{},
		&Vente{},
		&Paiement{},
		&AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	utils.Logger.Info("Database migrations completed successfully")
	return nil
}

// SeedDefaultAdmin creates an admin account when no admin exists yet and
// credentials were configured. It reports whether a user was created.
func SeedDefaultAdmin(db *gorm.DB, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	var count int64
	if err := db.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check existing admin: %w", err)
	}
	if count > 0 {
		utils.Logger.Debug("Admin user already exists")
		return false, nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := User{
		Name:         "Administrateur",
		Email:        email,
		PasswordHash: hash,
		Role:         RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	utils.Logger.WithField("email", email).Info("Default admin user created")
	return true, nil
}
