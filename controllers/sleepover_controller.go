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

// SleepoverController handles sleepover request endpoints
type SleepoverController struct {
	db     *mongo.Client
	engine *lifecycle.Engine
}

// NewSleepoverController creates a new sleepover controller
func NewSleepoverController(db *mongo.Client, engine *lifecycle.Engine) *SleepoverController {
	return &SleepoverController{db: db, engine: engine}
}

// CreateSleepover handles a resident's sleepover request submission
func (sc *SleepoverController) CreateSleepover(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.SleepoverSubmission
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	phone, err := utils.SanitizePhone(request.GuestPhoneNumber)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid guest phone number",
		})
	}

	id, err := sc.engine.Submit(c.Request().Context(), lifecycle.Submission{
		Kind:             lifecycle.KindSleepover,
		UserID:           claims.UserID,
		GuestName:        utils.SanitizeInput(request.GuestName),
		GuestSurname:     utils.SanitizeInput(request.GuestSurname),
		GuestPhone:       phone,
		RoomNumber:       utils.SanitizeInput(request.RoomNumber),
		StartDate:        request.StartDate,
		EndDate:          request.EndDate,
		AdditionalGuests: companionsFromRequest(request.AdditionalGuests),
	})
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Sleepover request submitted",
		Data: map[string]string{
			"id":     id,
			"status": string(lifecycle.StatusPending),
		},
	})
}

// GetMySleepovers returns the caller's sleepover requests, newest first
func (sc *SleepoverController) GetMySleepovers(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	records, err := sc.engine.ListByFilter(c.Request().Context(), lifecycle.KindSleepover, lifecycle.Mine(claims.UserID))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sleepover requests retrieved",
		Data:    sleepoverViews(records),
	})
}

// GetAllSleepovers returns sleepover requests for the admin dashboard
func (sc *SleepoverController) GetAllSleepovers(c echo.Context) error {
	records, err := sc.engine.ListByFilter(c.Request().Context(), lifecycle.KindSleepover, adminFilter(c))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sleepover requests retrieved",
		Data:    sleepoverViews(records),
	})
}

// UpdateSleepoverStatus applies an admin decision to a sleepover request
func (sc *SleepoverController) UpdateSleepoverStatus(c echo.Context) error {
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

	err := sc.engine.Transition(c.Request().Context(), lifecycle.KindSleepover, c.Param("id"),
		lifecycle.Status(request.Status), claims.UserID, utils.SanitizeInput(request.AdminResponse))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sleepover request updated",
	})
}

// CheckoutSleepover signs out the caller's active sleepover guest
// after verifying the shared security PIN.
func (sc *SleepoverController) CheckoutSleepover(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.CheckoutRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	record, err := sc.engine.CheckoutSleepover(c.Request().Context(), claims.UserID, request.Pin)
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sleepover guest signed out",
		Data:    sleepoverView(*record),
	})
}

func sleepoverView(rec lifecycle.Record) models.SleepoverRequest {
	id, _ := primitive.ObjectIDFromHex(rec.ID)
	userID, _ := primitive.ObjectIDFromHex(rec.UserID)
	return models.SleepoverRequest{
		ID:               id,
		UserID:           userID,
		GuestName:        rec.GuestName,
		GuestSurname:     rec.GuestSurname,
		GuestPhoneNumber: rec.GuestPhone,
		RoomNumber:       rec.RoomNumber,
		StartDate:        rec.StartDate,
		EndDate:          rec.EndDate,
		AdditionalGuests: additionalGuestsView(rec.AdditionalGuests),
		Status:           string(rec.Status),
		AdminResponse:    rec.AdminResponse,
		IsActive:         rec.IsActive,
		SignOutTime:      rec.SignOutTime,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func sleepoverViews(records []lifecycle.Record) []models.SleepoverRequest {
	views := make([]models.SleepoverRequest, len(records))
	for i, rec := range records {
		views[i] = sleepoverView(rec)
	}
	return views
}

func companionsFromRequest(guests []models.AdditionalGuest) []lifecycle.Companion {
	if len(guests) == 0 {
		return nil
	}
	out := make([]lifecycle.Companion, len(guests))
	for i, g := range guests {
		out[i] = lifecycle.Companion{
			Name:        utils.SanitizeInput(g.Name),
			Surname:     utils.SanitizeInput(g.Surname),
			PhoneNumber: g.PhoneNumber,
		}
	}
	return out
}

func additionalGuestsView(companions []lifecycle.Companion) []models.AdditionalGuest {
	if len(companions) == 0 {
		return nil
	}
	out := make([]models.AdditionalGuest, len(companions))
	for i, g := range companions {
		out[i] = models.AdditionalGuest{Name: g.Name, Surname: g.Surname, PhoneNumber: g.PhoneNumber}
	}
	return out
}
