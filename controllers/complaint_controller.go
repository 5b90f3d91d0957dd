package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/models"
	"github.com/TKhumalo/resdesk_backend/utils"
)

// ComplaintController handles complaint endpoints
type ComplaintController struct {
	db     *mongo.Client
	engine *lifecycle.Engine
}

// NewComplaintController creates a new complaint controller
func NewComplaintController(db *mongo.Client, engine *lifecycle.Engine) *ComplaintController {
	return &ComplaintController{db: db, engine: engine}
}

// CreateComplaint files a new complaint
func (cc *ComplaintController) CreateComplaint(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.ComplaintSubmission
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	id, err := cc.engine.Submit(c.Request().Context(), lifecycle.Submission{
		Kind:        lifecycle.KindComplaint,
		UserID:      claims.UserID,
		Title:       utils.SanitizeInput(request.Title),
		Description: utils.SanitizeInput(request.Description),
		Category:    utils.SanitizeInput(request.Category),
		RoomNumber:  utils.SanitizeInput(request.RoomNumber),
	})
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Complaint submitted",
		Data: map[string]string{
			"id":     id,
			"status": string(lifecycle.StatusPending),
		},
	})
}

// GetMyComplaints returns the caller's complaints, newest first
func (cc *ComplaintController) GetMyComplaints(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	records, err := cc.engine.ListByFilter(c.Request().Context(), lifecycle.KindComplaint, lifecycle.Mine(claims.UserID))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Complaints retrieved",
		Data:    complaintViews(records),
	})
}

// GetAllComplaints returns complaints for the admin dashboard
func (cc *ComplaintController) GetAllComplaints(c echo.Context) error {
	records, err := cc.engine.ListByFilter(c.Request().Context(), lifecycle.KindComplaint, adminFilter(c))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Complaints retrieved",
		Data:    complaintViews(records),
	})
}

// UpdateComplaintStatus applies an admin decision to a complaint
func (cc *ComplaintController) UpdateComplaintStatus(c echo.Context) error {
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

	err := cc.engine.Transition(c.Request().Context(), lifecycle.KindComplaint, c.Param("id"),
		lifecycle.Status(request.Status), claims.UserID, utils.SanitizeInput(request.AdminResponse))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Complaint updated",
	})
}

func complaintView(rec lifecycle.Record) models.Complaint {
	id, _ := primitive.ObjectIDFromHex(rec.ID)
	userID, _ := primitive.ObjectIDFromHex(rec.UserID)
	return models.Complaint{
		ID:            id,
		UserID:        userID,
		Title:         rec.Title,
		Description:   rec.Description,
		Category:      rec.Category,
		RoomNumber:    rec.RoomNumber,
		Status:        string(rec.Status),
		AdminResponse: rec.AdminResponse,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

func complaintViews(records []lifecycle.Record) []models.Complaint {
	views := make([]models.Complaint, len(records))
	for i, rec := range records {
		views[i] = complaintView(rec)
	}
	return views
}
