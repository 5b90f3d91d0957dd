package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TKhumalo/resdesk_backend/config"
	"github.com/TKhumalo/resdesk_backend/lifecycle"
	"github.com/TKhumalo/resdesk_backend/models"
)

// Collection per request kind. Complaints keep the short name the
// mobile client has always used.
var kindCollections = map[lifecycle.Kind]string{
	lifecycle.KindGuest:       "guest_requests",
	lifecycle.KindSleepover:   "sleepover_requests",
	lifecycle.KindMaintenance: "maintenance_requests",
	lifecycle.KindComplaint:   "complaints",
}

// RequestStore persists lifecycle records in MongoDB, one collection
// per request kind.
type RequestStore struct {
	client *mongo.Client
}

func NewRequestStore(client *mongo.Client) *RequestStore {
	return &RequestStore{client: client}
}

func (s *RequestStore) collection(kind lifecycle.Kind) *mongo.Collection {
	return config.GetCollection(s.client, kindCollections[kind])
}

func (s *RequestStore) Create(ctx context.Context, rec lifecycle.Record) (string, error) {
	doc, err := docFromRecord(rec)
	if err != nil {
		return "", err
	}
	result, err := s.collection(rec.Kind).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *RequestStore) Get(ctx context.Context, kind lifecycle.Kind, id string) (*lifecycle.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, lifecycle.ErrNotFound
	}
	return s.findOne(ctx, kind, bson.M{"_id": oid})
}

func (s *RequestStore) findOne(ctx context.Context, kind lifecycle.Kind, filter bson.M) (*lifecycle.Record, error) {
	var raw bson.Raw
	err := s.collection(kind).FindOne(ctx, filter).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return recordFromRaw(kind, raw)
}

func (s *RequestStore) Query(ctx context.Context, kind lifecycle.Kind, f lifecycle.Filter) ([]lifecycle.Record, error) {
	filter := bson.M{}
	if userID, ok := f.UserID(); ok {
		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return []lifecycle.Record{}, nil
		}
		filter["userId"] = oid
	}
	if status, ok := f.Status(); ok {
		filter["status"] = string(status)
	}
	if f.Pending() {
		filter["status"] = string(lifecycle.InitialStatus(kind))
	}
	if f.Today() {
		start, end := lifecycle.DayWindow(time.Now())
		filter["createdAt"] = bson.M{"$gte": start, "$lt": end}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection(kind).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []lifecycle.Record{}
	for cursor.Next(ctx) {
		rec, err := recordFromRaw(kind, cursor.Current)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, cursor.Err()
}

// Transition runs the read-validate-write cycle inside a Mongo session
// transaction so two concurrent approvers cannot both apply a decision
// to the same request. fn receives the session context, so any reads
// it makes through the store join the transaction.
func (s *RequestStore) Transition(ctx context.Context, kind lifecycle.Kind, id string, fn func(ctx context.Context, cur lifecycle.Record) (*lifecycle.Patch, error)) (*lifecycle.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, lifecycle.ErrNotFound
	}

	session, err := s.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		rec, err := s.findOne(sc, kind, bson.M{"_id": oid})
		if err != nil {
			return nil, err
		}
		patch, err := fn(sc, *rec)
		if err != nil {
			return nil, err
		}
		if patch == nil {
			return rec, nil
		}

		set := bson.M{"updatedAt": patch.UpdatedAt}
		if patch.Status != nil {
			rec.Status = *patch.Status
			set["status"] = string(*patch.Status)
		}
		if patch.AdminResponse != nil {
			rec.AdminResponse = *patch.AdminResponse
			set["adminResponse"] = *patch.AdminResponse
		}
		if patch.IsActive != nil {
			rec.IsActive = *patch.IsActive
			set["isActive"] = *patch.IsActive
		}
		if patch.SignOutTime != nil {
			rec.SignOutTime = patch.SignOutTime
			set["signOutTime"] = *patch.SignOutTime
		}
		if patch.CheckoutTime != nil {
			rec.CheckoutTime = patch.CheckoutTime
			set["checkoutTime"] = *patch.CheckoutTime
		}
		rec.UpdatedAt = patch.UpdatedAt

		_, err = s.collection(kind).UpdateOne(sc, bson.M{"_id": oid}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*lifecycle.Record), nil
}

// ActiveGuestCount sums the headcount (primary guest plus additional
// guests) across the user's guest visits still signed in.
func (s *RequestStore) ActiveGuestCount(ctx context.Context, userID string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"userId": oid,
			"status": string(lifecycle.StatusActive),
		}}},
		{{Key: "$project", Value: bson.M{
			"headcount": bson.M{"$add": bson.A{
				1,
				bson.M{"$size": bson.M{"$ifNull": bson.A{"$additionalGuests", bson.A{}}}},
			}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$headcount"},
		}}},
	}

	cursor, err := s.collection(lifecycle.KindGuest).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var out []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

func (s *RequestStore) ActiveSleepover(ctx context.Context, userID string) (*lifecycle.Record, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	rec, err := s.findOne(ctx, lifecycle.KindSleepover, bson.M{
		"userId":      oid,
		"status":      string(lifecycle.StatusApproved),
		"isActive":    true,
		"signOutTime": nil,
	})
	if err == lifecycle.ErrNotFound {
		return nil, nil
	}
	return rec, err
}

// --- record <-> document mapping -----------------------------------

func docFromRecord(rec lifecycle.Record) (interface{}, error) {
	userOID, err := primitive.ObjectIDFromHex(rec.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid userId", lifecycle.ErrValidation)
	}

	switch rec.Kind {
	case lifecycle.KindGuest:
		return models.GuestRequest{
			UserID:           userOID,
			FirstName:        rec.GuestName,
			LastName:         rec.GuestSurname,
			PhoneNumber:      rec.GuestPhone,
			RoomNumber:       rec.RoomNumber,
			Purpose:          rec.Purpose,
			FromDate:         rec.StartDate,
			TenantCode:       rec.TenantCode,
			AdditionalGuests: companionsToModel(rec.AdditionalGuests),
			Status:           string(rec.Status),
			AdminResponse:    rec.AdminResponse,
			CheckoutTime:     rec.CheckoutTime,
			CreatedAt:        rec.CreatedAt,
			UpdatedAt:        rec.UpdatedAt,
		}, nil
	case lifecycle.KindSleepover:
		return models.SleepoverRequest{
			UserID:           userOID,
			GuestName:        rec.GuestName,
			GuestSurname:     rec.GuestSurname,
			GuestPhoneNumber: rec.GuestPhone,
			RoomNumber:       rec.RoomNumber,
			StartDate:        rec.StartDate,
			EndDate:          rec.EndDate,
			AdditionalGuests: companionsToModel(rec.AdditionalGuests),
			Status:           string(rec.Status),
			AdminResponse:    rec.AdminResponse,
			IsActive:         rec.IsActive,
			SignOutTime:      rec.SignOutTime,
			CreatedAt:        rec.CreatedAt,
			UpdatedAt:        rec.UpdatedAt,
		}, nil
	case lifecycle.KindMaintenance:
		return models.MaintenanceRequest{
			UserID:        userOID,
			Title:         rec.Title,
			Description:   rec.Description,
			RoomNumber:    rec.RoomNumber,
			Priority:      rec.Priority,
			Status:        string(rec.Status),
			AdminResponse: rec.AdminResponse,
			MediaTypes:    rec.MediaTypes,
			MediaURLs:     rec.MediaURLs,
			ThumbnailURLs: rec.ThumbnailURLs,
			CreatedAt:     rec.CreatedAt,
			UpdatedAt:     rec.UpdatedAt,
		}, nil
	case lifecycle.KindComplaint:
		return models.Complaint{
			UserID:        userOID,
			Title:         rec.Title,
			Description:   rec.Description,
			Category:      rec.Category,
			RoomNumber:    rec.RoomNumber,
			Status:        string(rec.Status),
			AdminResponse: rec.AdminResponse,
			CreatedAt:     rec.CreatedAt,
			UpdatedAt:     rec.UpdatedAt,
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown request kind %q", lifecycle.ErrValidation, rec.Kind)
}

func recordFromRaw(kind lifecycle.Kind, raw bson.Raw) (*lifecycle.Record, error) {
	switch kind {
	case lifecycle.KindGuest:
		var doc models.GuestRequest
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return recordFromGuest(doc), nil
	case lifecycle.KindSleepover:
		var doc models.SleepoverRequest
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return recordFromSleepover(doc), nil
	case lifecycle.KindMaintenance:
		var doc models.MaintenanceRequest
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return recordFromMaintenance(doc), nil
	case lifecycle.KindComplaint:
		var doc models.Complaint
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return recordFromComplaint(doc), nil
	}
	return nil, fmt.Errorf("%w: unknown request kind %q", lifecycle.ErrValidation, kind)
}

func recordFromGuest(doc models.GuestRequest) *lifecycle.Record {
	return &lifecycle.Record{
		ID: doc.ID.Hex(),
		Submission: lifecycle.Submission{
			Kind:             lifecycle.KindGuest,
			UserID:           doc.UserID.Hex(),
			RoomNumber:       doc.RoomNumber,
			GuestName:        doc.FirstName,
			GuestSurname:     doc.LastName,
			GuestPhone:       doc.PhoneNumber,
			Purpose:          doc.Purpose,
			TenantCode:       doc.TenantCode,
			StartDate:        doc.FromDate,
			AdditionalGuests: companionsFromModel(doc.AdditionalGuests),
		},
		Status:        lifecycle.Status(doc.Status),
		AdminResponse: doc.AdminResponse,
		CheckoutTime:  doc.CheckoutTime,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func recordFromSleepover(doc models.SleepoverRequest) *lifecycle.Record {
	return &lifecycle.Record{
		ID: doc.ID.Hex(),
		Submission: lifecycle.Submission{
			Kind:             lifecycle.KindSleepover,
			UserID:           doc.UserID.Hex(),
			RoomNumber:       doc.RoomNumber,
			GuestName:        doc.GuestName,
			GuestSurname:     doc.GuestSurname,
			GuestPhone:       doc.GuestPhoneNumber,
			StartDate:        doc.StartDate,
			EndDate:          doc.EndDate,
			AdditionalGuests: companionsFromModel(doc.AdditionalGuests),
		},
		Status:        lifecycle.Status(doc.Status),
		AdminResponse: doc.AdminResponse,
		IsActive:      doc.IsActive,
		SignOutTime:   doc.SignOutTime,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func recordFromMaintenance(doc models.MaintenanceRequest) *lifecycle.Record {
	return &lifecycle.Record{
		ID: doc.ID.Hex(),
		Submission: lifecycle.Submission{
			Kind:          lifecycle.KindMaintenance,
			UserID:        doc.UserID.Hex(),
			Title:         doc.Title,
			Description:   doc.Description,
			Priority:      doc.Priority,
			RoomNumber:    doc.RoomNumber,
			MediaTypes:    doc.MediaTypes,
			MediaURLs:     doc.MediaURLs,
			ThumbnailURLs: doc.ThumbnailURLs,
		},
		Status:        lifecycle.Status(doc.Status),
		AdminResponse: doc.AdminResponse,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func recordFromComplaint(doc models.Complaint) *lifecycle.Record {
	return &lifecycle.Record{
		ID: doc.ID.Hex(),
		Submission: lifecycle.Submission{
			Kind:        lifecycle.KindComplaint,
			UserID:      doc.UserID.Hex(),
			Title:       doc.Title,
			Description: doc.Description,
			Category:    doc.Category,
			RoomNumber:  doc.RoomNumber,
		},
		Status:        lifecycle.Status(doc.Status),
		AdminResponse: doc.AdminResponse,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func companionsToModel(in []lifecycle.Companion) []models.AdditionalGuest {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.AdditionalGuest, len(in))
	for i, c := range in {
		out[i] = models.AdditionalGuest{Name: c.Name, Surname: c.Surname, PhoneNumber: c.PhoneNumber}
	}
	return out
}

func companionsFromModel(in []models.AdditionalGuest) []lifecycle.Companion {
	if len(in) == 0 {
		return nil
	}
	out := make([]lifecycle.Companion, len(in))
	for i, g := range in {
		out[i] = lifecycle.Companion{Name: g.Name, Surname: g.Surname, PhoneNumber: g.PhoneNumber}
	}
	return out
}
