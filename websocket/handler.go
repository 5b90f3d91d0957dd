package websocket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TKhumalo/resdesk_backend/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket handles the WebSocket connection. Clients connecting
// without a token may authenticate in-band with an "AUTH:<token>"
// text message.
func HandleWebSocket(c echo.Context, hub *Hub, userID primitive.ObjectID) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID:        userID,
		Conn:          conn,
		Authenticated: userID != primitive.NilObjectID,
	}

	hub.register <- client

	if client.Authenticated {
		conn.WriteJSON(Notification{
			Type:    "connected",
			Message: "WebSocket connection established",
			UserID:  userID.Hex(),
		})
	} else {
		conn.WriteJSON(Notification{
			Type:         "connected",
			Message:      "WebSocket connection established. Please authenticate to receive notifications.",
			RequiresAuth: true,
		})
	}

	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				break
			}

			if messageType != websocket.TextMessage {
				continue
			}
			messageStr := string(message)
			if !strings.HasPrefix(messageStr, "AUTH:") {
				continue
			}

			claims, err := middleware.ParseToken(strings.TrimPrefix(messageStr, "AUTH:"))
			if err != nil {
				conn.WriteJSON(Notification{
					Type:         "auth_response",
					Message:      "Authentication failed",
					RequiresAuth: true,
				})
				continue
			}

			oid, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				conn.WriteJSON(Notification{
					Type:         "auth_response",
					Message:      "Authentication failed",
					RequiresAuth: true,
				})
				continue
			}

			hub.AuthenticateClient(client, oid)
			conn.WriteJSON(Notification{
				Type:    "auth_response",
				Message: "Authenticated",
				UserID:  claims.UserID,
			})
		}
	}()

	return nil
}
