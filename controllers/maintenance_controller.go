package controllers

import (
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/models"
	"github.com/TKhumalo/resdesk_backend/utils"
)

// MaintenanceController handles maintenance ticket endpoints
type MaintenanceController struct {
	db     *mongo.Client
	engine *lifecycle.Engine
}

// NewMaintenanceController creates a new maintenance controller
func NewMaintenanceController(db *mongo.Client, engine *lifecycle.Engine) *MaintenanceController {
	return &MaintenanceController{db: db, engine: engine}
}

// CreateMaintenance opens a new maintenance ticket. Photo or video
// evidence arrives base64-encoded from the mobile client.
func (mc *MaintenanceController) CreateMaintenance(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.MaintenanceSubmission
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	var mediaTypes, mediaURLs, thumbnailURLs []string
	for i := range request.MediaFiles {
		mediaType := "image"
		if len(request.MediaTypes) > i {
			mediaType = request.MediaTypes[i]
		}
		if mediaType != "image" && mediaType != "video" {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid media type. Must be 'image' or 'video'",
			})
		}

		decodedFile, err := base64.StdEncoding.DecodeString(request.MediaFiles[i])
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid media file format",
			})
		}

		fileExt := ""
		if len(request.MediaFileNames) > i {
			fileExt = filepath.Ext(request.MediaFileNames[i])
		}
		if fileExt == "" {
			if mediaType == "image" {
				fileExt = ".jpg"
			} else {
				fileExt = ".mp4"
			}
		}
		filename := fmt.Sprintf("%d_%s%s", time.Now().Unix(), primitive.NewObjectID().Hex(), fileExt)

		mediaURL, err := utils.UploadFile(decodedFile, filename, mediaType, "maintenance")
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to store media file: " + err.Error(),
			})
		}

		// Thumbnails are nice-to-have; a failure does not block the ticket
		var thumbnailURL string
		if mediaType == "video" {
			thumbnailURL, err = utils.GenerateVideoThumbnail(mediaURL)
		} else {
			thumbnailURL, err = utils.GenerateImageThumbnail(decodedFile, filename)
		}
		if err != nil {
			log.Printf("Failed to generate thumbnail for %s: %v", filename, err)
			thumbnailURL = ""
		}

		mediaTypes = append(mediaTypes, mediaType)
		mediaURLs = append(mediaURLs, mediaURL)
		thumbnailURLs = append(thumbnailURLs, thumbnailURL)
	}

	id, err := mc.engine.Submit(c.Request().Context(), lifecycle.Submission{
		Kind:          lifecycle.KindMaintenance,
		UserID:        claims.UserID,
		Title:         utils.SanitizeInput(request.Title),
		Description:   utils.SanitizeInput(request.Description),
		Priority:      utils.SanitizeInput(request.Priority),
		RoomNumber:    utils.SanitizeInput(request.RoomNumber),
		MediaTypes:    mediaTypes,
		MediaURLs:     mediaURLs,
		ThumbnailURLs: thumbnailURLs,
	})
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Maintenance request submitted",
		Data: map[string]string{
			"id":     id,
			"status": string(lifecycle.StatusPending),
		},
	})
}

// GetMyMaintenance returns the caller's maintenance tickets, newest first
func (mc *MaintenanceController) GetMyMaintenance(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	records, err := mc.engine.ListByFilter(c.Request().Context(), lifecycle.KindMaintenance, lifecycle.Mine(claims.UserID))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Maintenance requests retrieved",
		Data:    maintenanceViews(records),
	})
}

// GetAllMaintenance returns maintenance tickets for the admin dashboard
func (mc *MaintenanceController) GetAllMaintenance(c echo.Context) error {
	records, err := mc.engine.ListByFilter(c.Request().Context(), lifecycle.KindMaintenance, adminFilter(c))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Maintenance requests retrieved",
		Data:    maintenanceViews(records),
	})
}

// UpdateMaintenanceStatus applies an admin decision to a ticket
func (mc *MaintenanceController) UpdateMaintenanceStatus(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.StatusUpdateRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	err := mc.engine.Transition(c.Request().Context(), lifecycle.KindMaintenance, c.Param("id"),
		lifecycle.Status(request.Status), claims.UserID, utils.SanitizeInput(request.AdminResponse))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Maintenance request updated",
	})
}

func maintenanceView(rec lifecycle.Record) models.MaintenanceRequest {
	id, _ := primitive.ObjectIDFromHex(rec.ID)
	userID, _ := primitive.ObjectIDFromHex(rec.UserID)
	return models.MaintenanceRequest{
		ID:            id,
		UserID:        userID,
		Title:         rec.Title,
		Description:   rec.Description,
		RoomNumber:    rec.RoomNumber,
		Priority:      rec.Priority,
		Status:        string(rec.Status),
		AdminResponse: rec.AdminResponse,
		MediaTypes:    rec.MediaTypes,
		MediaURLs:     rec.MediaURLs,
		ThumbnailURLs: rec.ThumbnailURLs,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

func maintenanceViews(records []lifecycle.Record) []models.MaintenanceRequest {
	views := make([]models.MaintenanceRequest, len(records))
	for i, rec := range records {
		views[i] = maintenanceView(rec)
	}
	return views
}
