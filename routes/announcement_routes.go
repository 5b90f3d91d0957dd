package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TKhumalo/resdesk_backend/controllers"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/models"
	ws "github.com/TKhumalo/resdesk_backend/websocket"
)

// RegisterAnnouncementRoutes sets up residence announcements
func RegisterAnnouncementRoutes(e *echo.Echo, db *mongo.Client, hub *ws.Hub) {
	announcementController := controllers.NewAnnouncementController(db, hub)

	announcements := e.Group("/api/announcements")
	announcements.Use(middleware.JWTMiddleware())

	// Every signed-in user can read announcements
	announcements.GET("", announcementController.GetAnnouncements)

	// Publishing is reserved for full admins
	manage := announcements.Group("", middleware.RequireUserType(models.UserTypeAdmin, models.UserTypeSuperAdmin))
	manage.POST("", announcementController.CreateAnnouncement)
	manage.PUT("/:id", announcementController.UpdateAnnouncement)
	manage.DELETE("/:id", announcementController.DeleteAnnouncement)
}
