package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceRequest is the stored maintenance ticket
type MaintenanceRequest struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	RoomNumber    string             `json:"roomNumber" bson:"roomNumber"`
	Priority      string             `json:"priority,omitempty" bson:"priority,omitempty"` // "low", "medium", "high"
	Status        string             `json:"status" bson:"status"`
	AdminResponse string             `json:"adminResponse,omitempty" bson:"adminResponse,omitempty"`
	MediaTypes    []string           `json:"mediaTypes,omitempty" bson:"mediaTypes,omitempty"`
	MediaURLs     []string           `json:"mediaUrls,omitempty" bson:"mediaUrls,omitempty"`
	ThumbnailURLs []string           `json:"thumbnailUrls,omitempty" bson:"thumbnailUrls,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// MaintenanceSubmission is the request body for opening a ticket.
// Media files arrive base64-encoded, mirroring the mobile client.
type MaintenanceSubmission struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RoomNumber     string   `json:"roomNumber"`
	Priority       string   `json:"priority,omitempty"`
	MediaFiles     []string `json:"mediaFiles,omitempty"`
	MediaTypes     []string `json:"mediaTypes,omitempty"`
	MediaFileNames []string `json:"mediaFileNames,omitempty"`
}

// StatusUpdateRequest is the admin transition body shared by all kinds
type StatusUpdateRequest struct {
	Status        string `json:"status"`
	AdminResponse string `json:"adminResponse,omitempty"`
}
