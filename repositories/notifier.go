package repositories

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/utils"
	ws "github.com/TKhumalo/resdesk_backend/websocket"
)

// LifecycleNotifier fans a lifecycle event out to the in-app
// notification feed, the WebSocket hub and FCM. Every channel is
// best-effort: a delivery failure is logged and never propagated back
// into the transition.
type LifecycleNotifier struct {
	db  *mongo.Client
	hub *ws.Hub
}

func NewLifecycleNotifier(db *mongo.Client, hub *ws.Hub) *LifecycleNotifier {
	return &LifecycleNotifier{db: db, hub: hub}
}

func (n *LifecycleNotifier) Notify(ctx context.Context, userID string, kind lifecycle.Kind, title, message string) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		log.Printf("Notify: invalid user id %q: %v", userID, err)
		return
	}

	if err := utils.SaveNotification(n.db, oid, title, message, string(kind)); err != nil {
		log.Printf("Failed to save notification for user %s: %v", userID, err)
	}

	if n.hub != nil {
		if err := n.hub.NotifyRequestUpdate(oid, map[string]string{
			"kind":    string(kind),
			"title":   title,
			"message": message,
		}); err != nil {
			// User simply not connected; nothing to do.
		}
	}

	if err := utils.SendFCMNotificationToUser(n.db, oid, title, message, map[string]string{"kind": string(kind)}); err != nil {
		log.Printf("Failed to send FCM notification to user %s: %v", userID, err)
	}

	go utils.SendDecisionEmail(n.db, oid, title, message)
}
