package routes

import (
	"net/http"
	"time"

	"servicesync/handlers"
	"servicesync/middleware"
	"servicesync/models"
	"servicesync/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers login and account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", hb.MeHandler)
		api.POST("/logout", hb.LogoutHandler)
		api.PUT("/fcm-token", hb.FCMTokenHandler)
	}

	// Account provisioning is supervisor only.
	admin := r.Group("/api/auth")
	admin.Use(middleware.JWTAuthMiddleware(models.RoleAdmin))
	admin.POST("/register", hb.RegisterHandler)
}

// RegisterSessionRoutes sets up the delivery session endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.CreateSessionHandler)
		api.GET("/:sessionID", hb.GetSessionHandler)
		api.PUT("/:sessionID", hb.UpdateSessionHandler)
	}
}

// RegisterFieldRoutes sets up the endpoints the workflow steps call from
// the floor: scan confirmation, nurse alerts and diet sheet capture.
func RegisterFieldRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	qr := r.Group("/api/qr")
	{
		qr.Use(middleware.JWTAuthMiddleware(models.RoleHostess, models.RoleAdmin))
		qr.POST("/scan", hb.QRScanHandler)
	}

	nurse := r.Group("/api/nurse")
	{
		nurse.POST("/alert", middleware.JWTAuthMiddleware(models.RoleHostess, models.RoleAdmin), hb.NurseAlertHandler)
		nurse.POST("/respond", middleware.JWTAuthMiddleware(models.RoleNurse, models.RoleAdmin), hb.NurseRespondHandler)
	}

	upload := r.Group("/api/upload")
	{
		upload.Use(middleware.JWTAuthMiddleware(models.RoleHostess, models.RoleAdmin))
		upload.POST("/diet-sheet", hb.UploadDietSheetHandler)
	}
}

// RegisterReportRoutes sets up supervisor reporting endpoints.
func RegisterReportRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reports")
	{
		api.Use(middleware.JWTAuthMiddleware(models.RoleAdmin))
		api.GET("/dashboard", hb.DashboardHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"message":  "Hi, I'm ServiceSync",
			"services": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterFieldRoutes(r, hb)
	RegisterReportRoutes(r, hb)
	RegisterHealthRoute(r)
}
