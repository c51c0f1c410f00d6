package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"municipalink/config"
	"municipalink/utils"
)

// InitDB opens the pooled GORM connection described by cfg. The returned
// handle is shared by every request.
func InitDB(cfg config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Environment == "development" {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.DBDriver {
	case "postgres":
		utils.Logger.Infof("Connecting to PostgreSQL at host=%s port=%s db=%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err = gorm.Open(postgres.Open(PostgresDSN(cfg)), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

	case "sqlite", "sqlite3":
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), os.ModePerm); err != nil {
			return nil, fmt.Errorf("create sqlite folder: %w", err)
		}
		db, err = gorm.Open(sqlite.Open(SQLiteDSN(cfg)), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		utils.Logger.Infof("SQLite connection established at %s", cfg.DBPath)

	default:
		return nil, fmt.Errorf("unsupported DB driver: %s", cfg.DBDriver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.GetConnMaxLifetime())

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// PostgresDSN prefers DATABASE_URL and otherwise builds a key/value DSN.
func PostgresDSN(cfg config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBSSLMode,
	)
}

// SQLiteDSN enables foreign keys and a busy timeout on the file database.
func SQLiteDSN(cfg config.Config) string {
	return cfg.DBPath + "?_foreign_keys=on&_busy_timeout=5000"
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
