package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"municipalink/config"
	"municipalink/utils"
)

// InitReportingDB opens the raw database/sql handle used for the scalar
// dashboard queries. It talks to the same database as InitDB.
func InitReportingDB(cfg config.Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.DBDriver {
	case "postgres":
		db, err = sql.Open("postgres", PostgresDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("open postgres reporting handle: %w", err)
		}
	case "sqlite", "sqlite3":
		db, err = sql.Open("sqlite3", SQLiteDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("open sqlite reporting handle: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(config.GetConnMaxLifetime())

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping reporting database: %w", err)
	}

	utils.Logger.Info("Reporting database connection established")
	return db, nil
}
