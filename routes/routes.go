package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"municipalink/controllers"
	"municipalink/middleware"
)

// NewRouter builds the engine with its global middleware and routes.
// Browsers may only call the API from corsOrigin.
func NewRouter(ctl *controllers.Controller, corsOrigin string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:              []string{corsOrigin},
		AllowMethods:              []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:             []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials:          true,
		OptionsResponseStatusCode: http.StatusOK,
		MaxAge:                    12 * time.Hour,
	}))

	SetupRoutes(r, ctl)
	return r
}

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, ctl *controllers.Controller) {
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.GET("/health", ctl.Health)

	// Public routes (no authentication required)
	public := r.Group("/api")
	{
		public.POST("/auth/login", ctl.Login)
	}

	// Protected routes (authentication required)
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(ctl.DB))
	{
		protected.GET("/auth/me", ctl.Me)
		protected.POST("/auth/refresh", ctl.RefreshToken)

		// Dashboard figures are visible to every role
		protected.GET("/stats", middleware.SectionAuthMiddleware("dashboard"), ctl.GetStats)

		biens := protected.Group("/biens")
		biens.Use(middleware.SectionAuthMiddleware("biens"))
		{
			biens.GET("", ctl.GetBiens)
			biens.GET("/:id", ctl.GetBien)
			biens.POST("", ctl.CreateBien)
			biens.PUT("", ctl.UpdateBien)
			biens.PUT("/:id", ctl.UpdateBien)
			biens.DELETE("", ctl.DeleteBien)
			biens.DELETE("/:id", ctl.DeleteBien)
		}

		locations := protected.Group("/locations")
		locations.Use(middleware.SectionAuthMiddleware("locations"))
		{
			locations.GET("", ctl.GetLocations)
			locations.GET("/:id", ctl.GetLocation)
			locations.POST("", ctl.CreateLocation)
			locations.PUT("", ctl.UpdateLocation)
			locations.PUT("/:id", ctl.UpdateLocation)
			locations.DELETE("", ctl.DeleteLocation)
			locations.DELETE("/:id", ctl.DeleteLocation)
		}

		// Sales are final: no update or delete
		ventes := protected.Group("/ventes")
		ventes.Use(middleware.SectionAuthMiddleware("ventes"))
		{
			ventes.GET("", ctl.GetVentes)
			ventes.GET("/:id", ctl.GetVente)
			ventes.POST("", ctl.CreateVente)
		}

		paiements := protected.Group("/paiements")
		paiements.Use(middleware.SectionAuthMiddleware("paiements"))
		{
			paiements.GET("", ctl.GetPaiements)
			paiements.GET("/:id", ctl.GetPaiement)
			paiements.POST("", ctl.CreatePaiement)
			paiements.PUT("", ctl.UpdatePaiement)
			paiements.PUT("/:id", ctl.UpdatePaiement)
		}

		// Admin routes
		users := protected.Group("/users")
		users.Use(middleware.AdminAuthMiddleware())
		{
			users.GET("", ctl.GetUsers)
			users.GET("/:id", ctl.GetUser)
			users.POST("", ctl.CreateUser)
			users.PUT("", ctl.UpdateUser)
			users.PUT("/:id", ctl.UpdateUser)
			users.PATCH("/:id/toggle-active", ctl.ToggleUserActive)
			users.PATCH("/:id/role", ctl.UpdateUserRole)
		}

		protected.GET("/audit", middleware.AdminAuthMiddleware(), ctl.GetAuditLogs)
	}
}
