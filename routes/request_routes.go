package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TKhumalo/resdesk_backend/controllers"
	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/models"
	"github.com/TKhumalo/resdesk_backend/repositories"
)

// RegisterRequestRoutes sets up the resident and admin endpoints for
// all four request kinds.
func RegisterRequestRoutes(e *echo.Echo, db *mongo.Client, engine *lifecycle.Engine, store *repositories.RequestStore) {
	sleepoverController := controllers.NewSleepoverController(db, engine)
	guestController := controllers.NewGuestController(db, engine, store)
	maintenanceController := controllers.NewMaintenanceController(db, engine)
	complaintController := controllers.NewComplaintController(db, engine)

	resident := e.Group("/api")
	resident.Use(middleware.JWTMiddleware())
	resident.Use(middleware.ActivityTracker(db))
	// Newbies cannot submit requests until an admin accepts them
	resident.Use(middleware.RequireUserType(models.UserTypeStudent))

	resident.POST("/sleepovers", sleepoverController.CreateSleepover)
	resident.GET("/sleepovers", sleepoverController.GetMySleepovers)
	resident.POST("/sleepovers/checkout", sleepoverController.CheckoutSleepover)

	resident.POST("/guests", guestController.CreateGuest)
	resident.GET("/guests", guestController.GetMyGuests)
	resident.POST("/guests/:id/checkout", guestController.CheckoutGuest)
	resident.GET("/guests/:id/pass", guestController.GetGuestPass)

	resident.POST("/maintenance", maintenanceController.CreateMaintenance)
	resident.GET("/maintenance", maintenanceController.GetMyMaintenance)

	resident.POST("/complaints", complaintController.CreateComplaint)
	resident.GET("/complaints", complaintController.GetMyComplaints)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.ActivityTracker(db))
	admin.Use(middleware.RequireAdmin())

	sleepovers := admin.Group("/sleepovers", middleware.RequireKindAccess(lifecycle.KindSleepover))
	sleepovers.GET("", sleepoverController.GetAllSleepovers)
	sleepovers.PUT("/:id/status", sleepoverController.UpdateSleepoverStatus)

	guests := admin.Group("/guests", middleware.RequireKindAccess(lifecycle.KindGuest))
	guests.GET("", guestController.GetAllGuests)
	guests.POST("/:id/checkout", guestController.CheckoutGuest)
	guests.GET("/:id/pass", guestController.GetGuestPass)

	maintenance := admin.Group("/maintenance", middleware.RequireKindAccess(lifecycle.KindMaintenance))
	maintenance.GET("", maintenanceController.GetAllMaintenance)
	maintenance.PUT("/:id/status", maintenanceController.UpdateMaintenanceStatus)

	complaints := admin.Group("/complaints", middleware.RequireKindAccess(lifecycle.KindComplaint))
	complaints.GET("", complaintController.GetAllComplaints)
	complaints.PUT("/:id/status", complaintController.UpdateComplaintStatus)
}
