package main

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TKhumalo/resdesk_backend/config"
	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/repositories"
	"github.com/TKhumalo/resdesk_backend/routes"
	"github.com/TKhumalo/resdesk_backend/utils"
	"github.com/TKhumalo/resdesk_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize Firebase (push notifications)
	config.InitFirebase()

	// Connect to Redis (dashboard stats cache)
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Request lifecycle engine shared by all controllers
	store := repositories.NewRequestStore(client)
	notifier := repositories.NewLifecycleNotifier(client, wsHub)
	engine := lifecycle.NewEngine(store, notifier, os.Getenv("CHECKOUT_PIN"))

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	rateLimiter := middleware.NewRateLimiter()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Residence Desk Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// WebSocket endpoint; clients authenticate in-band after connecting
	e.GET("/api/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, wsHub, primitive.NilObjectID)
	})

	routes.RegisterAuthRoutes(e, client)
	routes.RegisterRequestRoutes(e, client, engine, store)
	routes.RegisterAdminRoutes(e, client, redisClient)
	routes.RegisterNotificationRoutes(e, client)
	routes.RegisterAnnouncementRoutes(e, client, wsHub)

	// Token blacklist and inactivity housekeeping
	go middleware.CleanupBlacklist()
	go func() {
		for {
			middleware.MarkInactiveUsers(client, 30*time.Minute)
			time.Sleep(5 * time.Minute)
		}
	}()

	// Maintenance media storage
	if err := utils.InitializeStorage(); err != nil {
		log.Printf("Warning: failed to initialize upload storage: %v", err)
	}
	e.Static("/uploads", "uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
