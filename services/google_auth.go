package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TKhumalo/resdesk_backend/config"
	"github.com/TKhumalo/resdesk_backend/middleware"
	"github.com/TKhumalo/resdesk_backend/models"
)

// GoogleAuthService handles Google sign-in
type GoogleAuthService struct {
	DB *mongo.Client
}

// GoogleUser represents Google user information from the client
type GoogleUser struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	PhotoURL    string `json:"photoUrl"`
	GoogleID    string `json:"googleId"`
	IDToken     string `json:"idToken"`
}

// NewGoogleAuthService creates a new Google auth service
func NewGoogleAuthService(db *mongo.Client) *GoogleAuthService {
	return &GoogleAuthService{DB: db}
}

// AuthenticateUser verifies the Google token and signs the user in,
// creating a newbie account on first contact. New accounts stay
// newbies until an admin accepts them.
func (s *GoogleAuthService) AuthenticateUser(googleUser *GoogleUser) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if googleUser.Email == "" || googleUser.GoogleID == "" {
		return nil, errors.New("email and Google ID are required")
	}

	if err := s.verifyGoogleToken(googleUser.IDToken); err != nil {
		return nil, fmt.Errorf("failed to verify Google token: %w", err)
	}

	collection := config.GetCollection(s.DB, "users")

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": googleUser.Email}).Decode(&user)

	if err == mongo.ErrNoDocuments {
		now := time.Now()
		newUser := models.User{
			Email:      googleUser.Email,
			FullName:   googleUser.DisplayName,
			UserType:   models.UserTypeNewbie,
			GoogleID:   googleUser.GoogleID,
			ProfilePic: googleUser.PhotoURL,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		result, err := collection.InsertOne(ctx, newUser)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		insertedID := result.InsertedID.(primitive.ObjectID)

		token, refreshToken, err := middleware.GenerateJWT(insertedID.Hex(), newUser.Email, newUser.UserType)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}

		return map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"user": map[string]interface{}{
				"id":         insertedID,
				"email":      newUser.Email,
				"fullName":   newUser.FullName,
				"userType":   newUser.UserType,
				"profilePic": newUser.ProfilePic,
			},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"googleId":   googleUser.GoogleID,
			"profilePic": googleUser.PhotoURL,
			"updatedAt":  time.Now(),
		},
	}
	if _, err := collection.UpdateOne(ctx, bson.M{"email": googleUser.Email}, update); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return map[string]interface{}{
		"token":        token,
		"refreshToken": refreshToken,
		"user": map[string]interface{}{
			"id":         user.ID,
			"email":      user.Email,
			"fullName":   user.FullName,
			"userType":   user.UserType,
			"roomNumber": user.RoomNumber,
			"profilePic": user.ProfilePic,
		},
	}, nil
}

// verifyGoogleToken checks the ID token against Google's tokeninfo
// endpoint. An empty token is allowed in development.
func (s *GoogleAuthService) verifyGoogleToken(idToken string) error {
	if idToken == "" {
		return nil
	}

	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequest("GET", "https://oauth2.googleapis.com/tokeninfo", nil)
	if err != nil {
		return err
	}
	q := req.URL.Query()
	q.Add("id_token", idToken)
	req.URL.RawQuery = q.Encode()

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid token, Google API returned: %s", string(body))
	}

	var tokenInfo struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &tokenInfo); err != nil {
		return fmt.Errorf("failed to parse token info: %w", err)
	}
	if tokenInfo.Email == "" {
		return errors.New("token info missing email")
	}

	return nil
}
