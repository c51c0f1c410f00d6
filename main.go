package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"municipalink/config"
	"municipalink/controllers"
	"municipalink/database"
	"municipalink/jobs"
	"municipalink/routes"
	"municipalink/utils"
)

const appName = "municipalink"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		utils.Logger.Info("No .env file found, using environment variables")
	}

	// Set PostgreSQL environment variables if available
	for pg, key := range map[string]string{
		"PGHOST":     "DB_HOST",
		"PGPORT":     "DB_PORT",
		"PGUSER":     "DB_USER",
		"PGPASSWORD": "DB_PASSWORD",
		"PGDATABASE": "DB_NAME",
	} {
		if v := os.Getenv(pg); v != "" {
			os.Setenv(key, v)
		}
	}

	// Initialize config
	config.InitConfig()
	utils.InitLogger(appName, config.AppConfig.LogLevel)
	if err := config.Validate(); err != nil {
		utils.Logger.WithError(err).Fatal("Configuration rejected")
	}
	if config.DemoLoginAllowed() {
		utils.Logger.Warn("Demo login is enabled")
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DBs
	db, err := database.InitDB(config.AppConfig)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize GORM database")
	}
	defer database.CloseDB(db)

	reportingDB, err := database.InitReportingDB(config.AppConfig)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize reporting database")
	}
	defer reportingDB.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to run migrations")
	}
	created, err := database.SeedDefaultAdmin(db, config.AppConfig.AdminEmail, config.AppConfig.AdminPassword)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to seed default admin")
	}
	if created {
		utils.Logger.WithField("email", config.AppConfig.AdminEmail).Info("Default admin account created")
	}

	// Status sweeps
	if spec := config.AppConfig.SweepSchedule; spec != "" {
		scheduler, err := jobs.Schedule(spec, jobs.NewSweeper(db, nil))
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to schedule status sweep")
		}
		defer scheduler.Stop()
		utils.Logger.WithField("schedule", spec).Info("Status sweep scheduled")
	}

	// Setup router
	ctl := controllers.New(db, database.NewReports(reportingDB))
	r := routes.NewRouter(ctl, config.AppConfig.CORSOrigin)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + config.AppConfig.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.Logger.Infof("Server running at http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.WithError(err).Error("Forced shutdown")
	}
}
