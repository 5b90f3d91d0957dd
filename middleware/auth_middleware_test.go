package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/models"
)

func invokeWithUserType(t *testing.T, mw echo.MiddlewareFunc, userType string) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userType != "" {
		c.Set("userType", userType)
	}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code
}

func TestRequireUserType(t *testing.T) {
	mw := RequireUserType(models.UserTypeStudent)

	assert.Equal(t, http.StatusOK, invokeWithUserType(t, mw, models.UserTypeStudent))
	assert.Equal(t, http.StatusForbidden, invokeWithUserType(t, mw, models.UserTypeAdmin))
	assert.Equal(t, http.StatusUnauthorized, invokeWithUserType(t, mw, ""))
}

func TestRequireAdmin(t *testing.T) {
	mw := RequireAdmin()

	assert.Equal(t, http.StatusOK, invokeWithUserType(t, mw, models.UserTypeAdmin))
	assert.Equal(t, http.StatusOK, invokeWithUserType(t, mw, models.UserTypeAdminSecurity))
	assert.Equal(t, http.StatusForbidden, invokeWithUserType(t, mw, models.UserTypeStudent))
}

func TestRequireKindAccess(t *testing.T) {
	tests := []struct {
		name     string
		kind     lifecycle.Kind
		userType string
		want     int
	}{
		{"superadmin acts everywhere", lifecycle.KindComplaint, models.UserTypeSuperAdmin, http.StatusOK},
		{"full admin acts everywhere", lifecycle.KindMaintenance, models.UserTypeAdmin, http.StatusOK},
		{"maintenance admin on maintenance", lifecycle.KindMaintenance, models.UserTypeAdminMaint, http.StatusOK},
		{"maintenance admin on complaints", lifecycle.KindComplaint, models.UserTypeAdminMaint, http.StatusOK},
		{"maintenance admin on sleepovers", lifecycle.KindSleepover, models.UserTypeAdminMaint, http.StatusForbidden},
		{"security admin on guests", lifecycle.KindGuest, models.UserTypeAdminSecurity, http.StatusOK},
		{"security admin on complaints", lifecycle.KindComplaint, models.UserTypeAdminSecurity, http.StatusForbidden},
		{"guest admin on sleepovers", lifecycle.KindSleepover, models.UserTypeAdminGuests, http.StatusOK},
		{"complaints admin on maintenance", lifecycle.KindMaintenance, models.UserTypeAdminComplaints, http.StatusForbidden},
		{"student denied", lifecycle.KindGuest, models.UserTypeStudent, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, invokeWithUserType(t, RequireKindAccess(tt.kind), tt.userType))
		})
	}
}
