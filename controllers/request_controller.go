package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/models"
)

// mayActOn reports whether the caller submitted the request or holds
// an admin role. Gates per-record actions like guest checkout and the
// printable pass.
func mayActOn(claims *middleware.JwtCustomClaims, rec *lifecycle.Record) bool {
	return rec.UserID == claims.UserID || models.IsAdminType(claims.UserType)
}

// lifecycleError maps engine errors onto the JSON response envelope.
func lifecycleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, lifecycle.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, lifecycle.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Guest limit exceeded: at most 3 people may be signed in at once",
		})
	case errors.Is(err, lifecycle.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Request not found",
		})
	case errors.Is(err, lifecycle.ErrAlreadyFinalized):
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Request has already been finalized",
		})
	case errors.Is(err, lifecycle.ErrActiveSleepoverExists):
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "User already has an active sleepover",
		})
	case errors.Is(err, lifecycle.ErrInvalidPin):
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Invalid security code",
		})
	case errors.Is(err, lifecycle.ErrNoActiveSleepover):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No active sleepover found",
		})
	}
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
	})
}

// adminFilter builds a list filter from the admin query parameters.
// ?pending=true and ?today=true are shortcuts; ?status=<s> matches one
// state; no parameter lists everything.
func adminFilter(c echo.Context) lifecycle.Filter {
	if c.QueryParam("pending") == "true" {
		return lifecycle.PendingOnly()
	}
	if c.QueryParam("today") == "true" {
		return lifecycle.TodayOnly()
	}
	if status := c.QueryParam("status"); status != "" {
		return lifecycle.StatusEquals(lifecycle.Status(status))
	}
	return lifecycle.All()
}
