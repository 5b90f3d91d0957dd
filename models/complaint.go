package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint is the stored complaint document
type Complaint struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Category      string             `json:"category,omitempty" bson:"category,omitempty"` // "noise", "cleanliness", "security", "other"
	RoomNumber    string             `json:"roomNumber,omitempty" bson:"roomNumber,omitempty"`
	Status        string             `json:"status" bson:"status"`
	AdminResponse string             `json:"adminResponse,omitempty" bson:"adminResponse,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ComplaintSubmission is the request body for filing a complaint
type ComplaintSubmission struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	RoomNumber  string `json:"roomNumber,omitempty"`
}
