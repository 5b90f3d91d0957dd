package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TKhumalo/resdesk_backend/config"
	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/models"
	"github.com/TKhumalo/resdesk_backend/utils"
)

const dashboardCacheKey = "dashboard:stats"
const dashboardCacheTTL = 30 * time.Second

// AdminController handles admin user management and dashboard stats
type AdminController struct {
	db    *mongo.Client
	redis *redis.Client
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Client, redisClient *redis.Client) *AdminController {
	return &AdminController{db: db, redis: redisClient}
}

// DashboardStats is the admin landing-page summary
type DashboardStats struct {
	PendingSleepovers    int64 `json:"pendingSleepovers"`
	PendingMaintenance   int64 `json:"pendingMaintenance"`
	PendingComplaints    int64 `json:"pendingComplaints"`
	ActiveGuests         int64 `json:"activeGuests"`
	ActiveSleepovers     int64 `json:"activeSleepovers"`
	TotalResidents       int64 `json:"totalResidents"`
	PendingNewbies       int64 `json:"pendingNewbies"`
	RequestsCreatedToday int64 `json:"requestsCreatedToday"`
}

// GetDashboardStats returns the admin dashboard counters. Results are
// cached in Redis for a short window since every admin page load hits
// this endpoint.
func (ac *AdminController) GetDashboardStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if ac.redis != nil {
		if cached, err := ac.redis.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var stats DashboardStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return c.JSON(http.StatusOK, models.Response{
					Status:  http.StatusOK,
					Message: "Dashboard stats retrieved",
					Data:    stats,
				})
			}
		}
	}

	stats, err := ac.collectStats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to collect dashboard stats",
		})
	}

	if ac.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := ac.redis.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache dashboard stats: %v", err)
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard stats retrieved",
		Data:    stats,
	})
}

func (ac *AdminController) collectStats(ctx context.Context) (*DashboardStats, error) {
	count := func(coll string, filter bson.M) (int64, error) {
		return config.GetCollection(ac.db, coll).CountDocuments(ctx, filter)
	}

	stats := &DashboardStats{}
	var err error

	pending := string(lifecycle.StatusPending)
	if stats.PendingSleepovers, err = count("sleepover_requests", bson.M{"status": pending}); err != nil {
		return nil, err
	}
	if stats.PendingMaintenance, err = count("maintenance_requests", bson.M{"status": pending}); err != nil {
		return nil, err
	}
	if stats.PendingComplaints, err = count("complaints", bson.M{"status": pending}); err != nil {
		return nil, err
	}
	if stats.ActiveGuests, err = count("guest_requests", bson.M{"status": string(lifecycle.StatusActive)}); err != nil {
		return nil, err
	}
	if stats.ActiveSleepovers, err = count("sleepover_requests", bson.M{
		"status":      string(lifecycle.StatusApproved),
		"isActive":    true,
		"signOutTime": nil,
	}); err != nil {
		return nil, err
	}
	if stats.TotalResidents, err = count("users", bson.M{"userType": models.UserTypeStudent}); err != nil {
		return nil, err
	}
	if stats.PendingNewbies, err = count("users", bson.M{"userType": models.UserTypeNewbie}); err != nil {
		return nil, err
	}

	dayStart, dayEnd := lifecycle.DayWindow(time.Now())
	today := bson.M{"createdAt": bson.M{"$gte": dayStart, "$lt": dayEnd}}
	for _, coll := range []string{"guest_requests", "sleepover_requests", "maintenance_requests", "complaints"} {
		n, err := count(coll, today)
		if err != nil {
			return nil, err
		}
		stats.RequestsCreatedToday += n
	}

	return stats, nil
}

// GetUsers lists accounts, optionally narrowed to one user type
func (ac *AdminController) GetUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if userType := c.QueryParam("userType"); userType != "" {
		filter["userType"] = userType
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection(ac.db, "users").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve users",
		})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode users",
		})
	}
	for i := range users {
		users[i].Password = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved",
		Data:    users,
	})
}

// AcceptNewbie promotes a newbie account to a full student account
// and assigns the room number.
func (ac *AdminController) AcceptNewbie(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var request struct {
		RoomNumber string `json:"roomNumber"`
	}
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	set := bson.M{
		"userType":  models.UserTypeStudent,
		"updatedAt": time.Now(),
	}
	if request.RoomNumber != "" {
		set["roomNumber"] = utils.SanitizeInput(request.RoomNumber)
	}

	result, err := config.GetCollection(ac.db, "users").UpdateOne(ctx,
		bson.M{"_id": userID, "userType": models.UserTypeNewbie},
		bson.M{"$set": set})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update user",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Newbie account not found",
		})
	}

	if err := utils.SaveNotification(ac.db, userID, "Welcome to the residence",
		"Your account has been accepted. You now have full resident access.", "account"); err != nil {
		log.Printf("Failed to save acceptance notification: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Newbie accepted as student",
	})
}
