// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/models"
)

// RequireUserType checks if the authenticated user has one of the allowed user types
func RequireUserType(allowedTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType := ExtractUserType(c)

			if userType == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: user type not found",
				})
			}

			for _, allowedType := range allowedTypes {
				if userType == allowedType {
					return next(c)
				}
			}

			c.Logger().Errorf("Access denied for user type: %s, allowed types: %v", userType, allowedTypes)
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your user type",
			})
		}
	}
}

// RequireAdmin allows any of the admin roles through
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType := ExtractUserType(c)
			if !models.IsAdminType(userType) {
				return c.JSON(http.StatusForbidden, models.Response{
					Status:  http.StatusForbidden,
					Message: "Access denied for your user type",
				})
			}
			return next(c)
		}
	}
}

// Admin sub-types and the request kinds they may act on. Full admins
// and superadmins can act on everything.
var kindAdminTypes = map[lifecycle.Kind][]string{
	lifecycle.KindGuest:       {models.UserTypeAdminSecurity, models.UserTypeAdminGuests},
	lifecycle.KindSleepover:   {models.UserTypeAdminSecurity, models.UserTypeAdminGuests},
	lifecycle.KindMaintenance: {models.UserTypeAdminMaint},
	lifecycle.KindComplaint:   {models.UserTypeAdminMaint, models.UserTypeAdminComplaints},
}

// RequireKindAccess gates admin request endpoints by the sub-type's
// area of responsibility.
func RequireKindAccess(kind lifecycle.Kind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType := ExtractUserType(c)

			if userType == models.UserTypeAdmin || userType == models.UserTypeSuperAdmin {
				return next(c)
			}
			for _, allowed := range kindAdminTypes[kind] {
				if userType == allowed {
					return next(c)
				}
			}

			c.Logger().Errorf("Access denied for user type %s on %s requests", userType, kind)
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your user type",
			})
		}
	}
}
