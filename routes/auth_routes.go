package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TKhumalo/resdesk_backend/controllers"
	"github.com/TKhumalo/resdesk_backend/middleware"
)

// RegisterAuthRoutes sets up signup, login and logout
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client) {
	authController := controllers.NewAuthController(db)

	auth := e.Group("/api/auth")
	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)
	auth.POST("/google", authController.GoogleLogin)

	protected := auth.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
	protected.GET("/me", authController.Me)
}
