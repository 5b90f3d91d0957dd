package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/models"
)

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLifecycleErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("guest name is required: %w", lifecycle.ErrValidation), http.StatusBadRequest},
		{lifecycle.ErrInvalidStatus, http.StatusBadRequest},
		{lifecycle.ErrCapacityExceeded, http.StatusConflict},
		{lifecycle.ErrNotFound, http.StatusNotFound},
		{lifecycle.ErrAlreadyFinalized, http.StatusConflict},
		{lifecycle.ErrActiveSleepoverExists, http.StatusConflict},
		{lifecycle.ErrInvalidPin, http.StatusForbidden},
		{lifecycle.ErrNoActiveSleepover, http.StatusNotFound},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			c, rec := newTestContext(t, "/")
			require.NoError(t, lifecycleError(c, tt.err))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMayActOn(t *testing.T) {
	rec := &lifecycle.Record{Submission: lifecycle.Submission{UserID: "u1"}}

	owner := &middleware.JwtCustomClaims{UserID: "u1", UserType: models.UserTypeStudent}
	assert.True(t, mayActOn(owner, rec))

	// Another resident cannot act on someone else's guest, even with
	// the shared PIN in hand.
	stranger := &middleware.JwtCustomClaims{UserID: "u2", UserType: models.UserTypeStudent}
	assert.False(t, mayActOn(stranger, rec))

	frontDesk := &middleware.JwtCustomClaims{UserID: "u3", UserType: models.UserTypeAdminSecurity}
	assert.True(t, mayActOn(frontDesk, rec))

	super := &middleware.JwtCustomClaims{UserID: "u4", UserType: models.UserTypeSuperAdmin}
	assert.True(t, mayActOn(super, rec))
}

func TestAdminFilterFromQuery(t *testing.T) {
	c, _ := newTestContext(t, "/api/admin/sleepovers?pending=true")
	assert.True(t, adminFilter(c).Pending())

	c, _ = newTestContext(t, "/api/admin/sleepovers?today=true")
	assert.True(t, adminFilter(c).Today())

	c, _ = newTestContext(t, "/api/admin/sleepovers?status=approved")
	status, ok := adminFilter(c).Status()
	require.True(t, ok)
	assert.Equal(t, lifecycle.StatusApproved, status)

	// pending takes precedence when combined
	c, _ = newTestContext(t, "/api/admin/sleepovers?pending=true&status=approved")
	assert.True(t, adminFilter(c).Pending())

	c, _ = newTestContext(t, "/api/admin/sleepovers")
	f := adminFilter(c)
	assert.False(t, f.Pending())
	assert.False(t, f.Today())
	_, ok = f.Status()
	assert.False(t, ok)
	_, ok = f.UserID()
	assert.False(t, ok)
}
