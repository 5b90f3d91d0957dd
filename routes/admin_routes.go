package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TKhumalo/resdesk_backend/controllers"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/models"
)

// RegisterAdminRoutes sets up user management and the dashboard
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, redisClient *redis.Client) {
	adminController := controllers.NewAdminController(db, redisClient)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.ActivityTracker(db))
	admin.Use(middleware.RequireAdmin())

	admin.GET("/dashboard", adminController.GetDashboardStats)

	// Account management is reserved for full admins
	users := admin.Group("/users", middleware.RequireUserType(models.UserTypeAdmin, models.UserTypeSuperAdmin))
	users.GET("", adminController.GetUsers)
	users.PUT("/:id/accept", adminController.AcceptNewbie)
}
