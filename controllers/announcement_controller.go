package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TKhumalo/resdesk_backend/config"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/models"
	"github.com/TKhumalo/resdesk_backend/utils"
	ws "github.com/TKhumalo/resdesk_backend/websocket"
)

// AnnouncementController handles residence-wide announcements
type AnnouncementController struct {
	db  *mongo.Client
	hub *ws.Hub
}

// NewAnnouncementController creates a new announcement controller
func NewAnnouncementController(db *mongo.Client, hub *ws.Hub) *AnnouncementController {
	return &AnnouncementController{db: db, hub: hub}
}

// CreateAnnouncement publishes an announcement and fans it out to all
// residents' notification feeds.
func (ac *AnnouncementController) CreateAnnouncement(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.AnnouncementRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Title and body are required",
		})
	}

	posterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	now := time.Now()
	announcement := models.Announcement{
		ID:        primitive.NewObjectID(),
		Title:     utils.SanitizeInput(request.Title),
		Body:      utils.SanitizeInput(request.Body),
		PostedBy:  posterID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := config.GetCollection(ac.db, "announcements").InsertOne(ctx, announcement); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create announcement",
		})
	}

	// Fan out in the background; publishing does not wait for delivery
	go ac.fanOut(announcement)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Announcement published",
		Data:    announcement,
	})
}

// fanOut saves an in-app notification for every resident and pushes
// the announcement to connected sockets.
func (ac *AnnouncementController) fanOut(announcement models.Announcement) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := config.GetCollection(ac.db, "users").Find(ctx, bson.M{
		"userType": bson.M{"$in": []string{models.UserTypeStudent, models.UserTypeNewbie}},
	})
	if err != nil {
		log.Printf("Announcement fan-out failed to list users: %v", err)
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		if err := utils.SaveNotification(ac.db, user.ID, announcement.Title, announcement.Body, "announcement"); err != nil {
			log.Printf("Failed to save announcement notification for user %s: %v", user.ID.Hex(), err)
		}
	}

	if ac.hub != nil {
		ac.hub.BroadcastAnnouncement(announcement)
	}
}

// GetAnnouncements lists announcements, newest first
func (ac *AnnouncementController) GetAnnouncements(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection(ac.db, "announcements").Find(ctx, bson.M{}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve announcements",
		})
	}
	defer cursor.Close(ctx)

	announcements := []models.Announcement{}
	if err := cursor.All(ctx, &announcements); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode announcements",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Announcements retrieved",
		Data:    announcements,
	})
}

// UpdateAnnouncement edits an announcement's title or body
func (ac *AnnouncementController) UpdateAnnouncement(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid announcement ID",
		})
	}

	var request models.AnnouncementRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Title and body are required",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":     utils.SanitizeInput(request.Title),
		"body":      utils.SanitizeInput(request.Body),
		"updatedAt": time.Now(),
	}}
	result, err := config.GetCollection(ac.db, "announcements").UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update announcement",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Announcement not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Announcement updated",
	})
}

// DeleteAnnouncement removes an announcement permanently
func (ac *AnnouncementController) DeleteAnnouncement(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid announcement ID",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := config.GetCollection(ac.db, "announcements").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete announcement",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Announcement not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Announcement deleted",
	})
}
