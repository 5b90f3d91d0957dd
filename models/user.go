package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types recognised by the portals. Admin sub-types gate which
// request kinds an approver may act on.
const (
	UserTypeStudent         = "student"
	UserTypeNewbie          = "newbie"
	UserTypeAdmin           = "admin"
	UserTypeSuperAdmin      = "superadmin"
	UserTypeAdminMaint      = "admin-maintenance"
	UserTypeAdminSecurity   = "admin-security"
	UserTypeAdminComplaints = "admin-complaints"
	UserTypeAdminGuests     = "admin-guest-management"
)

// User represents a resident or admin account
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"-" bson:"password,omitempty"`
	FullName       string             `json:"fullName" bson:"fullName"`
	UserType       string             `json:"userType" bson:"userType"`
	RoomNumber     string             `json:"roomNumber,omitempty" bson:"roomNumber,omitempty"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfilePic     string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	GoogleID       string             `json:"googleId,omitempty" bson:"googleId,omitempty"`
	FCMToken       string             `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	LastActivityAt time.Time          `json:"lastActivityAt,omitempty" bson:"lastActivityAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsAdminType reports whether the user type is any of the admin roles.
func IsAdminType(userType string) bool {
	switch userType {
	case UserTypeAdmin, UserTypeSuperAdmin, UserTypeAdminMaint,
		UserTypeAdminSecurity, UserTypeAdminComplaints, UserTypeAdminGuests:
		return true
	}
	return false
}

type SignupRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FullName   string `json:"fullName" validate:"required"`
	RoomNumber string `json:"roomNumber"`
	Phone      string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
