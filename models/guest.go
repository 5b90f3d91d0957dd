package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GuestRequest is the stored guest visit document. Guest visits start
// out "active" and end "checked_out"; there is no approval step.
type GuestRequest struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"userId" bson:"userId"`
	FirstName        string             `json:"firstName" bson:"firstName"`
	LastName         string             `json:"lastName" bson:"lastName"`
	PhoneNumber      string             `json:"phoneNumber" bson:"phoneNumber"`
	RoomNumber       string             `json:"roomNumber" bson:"roomNumber"`
	Purpose          string             `json:"purpose,omitempty" bson:"purpose,omitempty"`
	FromDate         time.Time          `json:"fromDate" bson:"fromDate"`
	TenantCode       string             `json:"tenantCode" bson:"tenantCode"`
	AdditionalGuests []AdditionalGuest  `json:"additionalGuests,omitempty" bson:"additionalGuests,omitempty"`
	Status           string             `json:"status" bson:"status"`
	AdminResponse    string             `json:"adminResponse,omitempty" bson:"adminResponse,omitempty"`
	CheckoutTime     *time.Time         `json:"checkoutTime,omitempty" bson:"checkoutTime,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// GuestSubmission is the request body for signing in a guest
type GuestSubmission struct {
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	PhoneNumber      string            `json:"phoneNumber"`
	RoomNumber       string            `json:"roomNumber"`
	Purpose          string            `json:"purpose,omitempty"`
	FromDate         time.Time         `json:"fromDate"`
	AdditionalGuests []AdditionalGuest `json:"additionalGuests,omitempty"`
}
