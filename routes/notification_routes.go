package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TKhumalo/resdesk_backend/controllers"
	"github.com/TKhumalo/resdesk_backend/middleware"
)

// RegisterNotificationRoutes sets up the in-app notification feed
func RegisterNotificationRoutes(e *echo.Echo, db *mongo.Client) {
	notificationController := controllers.NewNotificationController(db)

	notifications := e.Group("/api/notifications")
	notifications.Use(middleware.JWTMiddleware())

	notifications.GET("", notificationController.GetNotifications)
	notifications.PUT("/:id/read", notificationController.MarkNotificationRead)
	notifications.PUT("/read-all", notificationController.MarkAllNotificationsRead)
	notifications.PUT("/fcm-token", notificationController.UpdateFCMToken)
}
