package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdditionalGuest is one extra person on a sleepover or guest request.
// Policy allows at most two per request (three people total).
type AdditionalGuest struct {
	Name        string `json:"name" bson:"name"`
	Surname     string `json:"surname" bson:"surname"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
}

// SleepoverRequest is the stored sleepover document
type SleepoverRequest struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"userId" bson:"userId"`
	GuestName        string             `json:"guestName" bson:"guestName"`
	GuestSurname     string             `json:"guestSurname" bson:"guestSurname"`
	GuestPhoneNumber string             `json:"guestPhoneNumber" bson:"guestPhoneNumber"`
	RoomNumber       string             `json:"roomNumber" bson:"roomNumber"`
	StartDate        time.Time          `json:"startDate" bson:"startDate"`
	EndDate          time.Time          `json:"endDate" bson:"endDate"`
	AdditionalGuests []AdditionalGuest  `json:"additionalGuests,omitempty" bson:"additionalGuests,omitempty"`
	Status           string             `json:"status" bson:"status"`
	AdminResponse    string             `json:"adminResponse,omitempty" bson:"adminResponse,omitempty"`
	IsActive         bool               `json:"isActive" bson:"isActive"`
	SignOutTime      *time.Time         `json:"signOutTime,omitempty" bson:"signOutTime,omitempty"`
	SecurityCode     string             `json:"securityCode,omitempty" bson:"securityCode,omitempty"` // legacy per-request code, superseded by the shared checkout PIN
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SleepoverSubmission is the request body for creating a sleepover
type SleepoverSubmission struct {
	GuestName        string            `json:"guestName"`
	GuestSurname     string            `json:"guestSurname"`
	GuestPhoneNumber string            `json:"guestPhoneNumber"`
	RoomNumber       string            `json:"roomNumber"`
	StartDate        time.Time         `json:"startDate"`
	EndDate          time.Time         `json:"endDate"`
	AdditionalGuests []AdditionalGuest `json:"additionalGuests,omitempty"`
}

// CheckoutRequest carries the shared PIN for sleepover/guest sign-out
type CheckoutRequest struct {
	Pin string `json:"pin"`
}
