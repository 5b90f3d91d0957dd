package controllers

import (
	"bytes"
	"image/png"
	"net/http"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/models"
	"github.com/TKhumalo/resdesk_backend/repositories"
	"github.com/TKhumalo/resdesk_backend/utils"
)

// GuestController handles guest visit endpoints
type GuestController struct {
	db     *mongo.Client
	engine *lifecycle.Engine
	store  *repositories.RequestStore
}

// NewGuestController creates a new guest controller
func NewGuestController(db *mongo.Client, engine *lifecycle.Engine, store *repositories.RequestStore) *GuestController {
	return &GuestController{db: db, engine: engine, store: store}
}

// CreateGuest signs in a new guest visit. Visits are active
// immediately; there is no approval step.
func (gc *GuestController) CreateGuest(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.GuestSubmission
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	phone, err := utils.SanitizePhone(request.PhoneNumber)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid phone number",
		})
	}

	// Short shareable code printed on the guest pass
	tenantCode := strings.ToUpper(uuid.NewString()[:8])

	id, err := gc.engine.Submit(c.Request().Context(), lifecycle.Submission{
		Kind:             lifecycle.KindGuest,
		UserID:           claims.UserID,
		GuestName:        utils.SanitizeInput(request.FirstName),
		GuestSurname:     utils.SanitizeInput(request.LastName),
		GuestPhone:       phone,
		RoomNumber:       utils.SanitizeInput(request.RoomNumber),
		Purpose:          utils.SanitizeInput(request.Purpose),
		TenantCode:       tenantCode,
		StartDate:        request.FromDate,
		AdditionalGuests: companionsFromRequest(request.AdditionalGuests),
	})
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Guest signed in",
		Data: map[string]string{
			"id":         id,
			"status":     string(lifecycle.StatusActive),
			"tenantCode": tenantCode,
		},
	})
}

// GetMyGuests returns the caller's guest visits, newest first
func (gc *GuestController) GetMyGuests(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	records, err := gc.engine.ListByFilter(c.Request().Context(), lifecycle.KindGuest, lifecycle.Mine(claims.UserID))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Guest visits retrieved",
		Data:    guestViews(records),
	})
}

// GetAllGuests returns guest visits for the security dashboard.
// ?today=true narrows the list to today's sign-ins.
func (gc *GuestController) GetAllGuests(c echo.Context) error {
	records, err := gc.engine.ListByFilter(c.Request().Context(), lifecycle.KindGuest, adminFilter(c))
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Guest visits retrieved",
		Data:    guestViews(records),
	})
}

// CheckoutGuest signs out a guest visit after verifying the shared
// security PIN.
func (gc *GuestController) CheckoutGuest(c echo.Context) error {
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

	record, err := gc.store.Get(c.Request().Context(), lifecycle.KindGuest, c.Param("id"))
	if err != nil {
		return lifecycleError(c, err)
	}

	// Holding the shared PIN is not enough; residents may only check
	// out their own guests. Admin roles cover the front desk.
	if !mayActOn(claims, record) {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied",
		})
	}

	if err := gc.engine.CheckoutGuestVisit(c.Request().Context(), c.Param("id"), request.Pin); err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Guest checked out",
	})
}

// GetGuestPass renders the visit's tenant code as a QR image for the
// front desk to scan.
func (gc *GuestController) GetGuestPass(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	record, err := gc.store.Get(c.Request().Context(), lifecycle.KindGuest, c.Param("id"))
	if err != nil {
		return lifecycleError(c, err)
	}

	// Residents can only print passes for their own guests
	if !mayActOn(claims, record) {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied",
		})
	}

	content := "resdesk://guest/" + record.TenantCode
	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code: " + err.Error(),
		})
	}

	qrCode, err = barcode.Scale(qrCode, 200, 200)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to scale QR code: " + err.Error(),
		})
	}

	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, qrCode); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode QR code as PNG: " + err.Error(),
		})
	}

	c.Response().Header().Set("Content-Disposition", "inline; filename=guest-pass-"+record.TenantCode+".png")
	return c.Blob(http.StatusOK, "image/png", buffer.Bytes())
}

func guestView(rec lifecycle.Record) models.GuestRequest {
	id, _ := primitive.ObjectIDFromHex(rec.ID)
	userID, _ := primitive.ObjectIDFromHex(rec.UserID)
	return models.GuestRequest{
		ID:               id,
		UserID:           userID,
		FirstName:        rec.GuestName,
		LastName:         rec.GuestSurname,
		PhoneNumber:      rec.GuestPhone,
		RoomNumber:       rec.RoomNumber,
		Purpose:          rec.Purpose,
		FromDate:         rec.StartDate,
		TenantCode:       rec.TenantCode,
		AdditionalGuests: additionalGuestsView(rec.AdditionalGuests),
		Status:           string(rec.Status),
		AdminResponse:    rec.AdminResponse,
		CheckoutTime:     rec.CheckoutTime,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func guestViews(records []lifecycle.Record) []models.GuestRequest {
	views := make([]models.GuestRequest, len(records))
	for i, rec := range records {
		views[i] = guestView(rec)
	}
	return views
}
