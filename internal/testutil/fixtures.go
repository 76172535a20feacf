package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bmsit/facultymeet/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test faculty record with the given designation.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, designation string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:          primitive.NewObjectID(),
		FullName:    fullName,
		FullNameCI:  text.Fold(fullName),
		Email:       email,
		Designation: designation,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateUserWithToken creates a test faculty record with an FCM token, so
// dispatch paths have a deliverable recipient.
func (f *Fixtures) CreateUserWithToken(ctx context.Context, fullName, email, designation, token string) models.User {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, email, designation)
	_, err := f.db.Collection("users").UpdateByID(ctx, user.ID,
		map[string]interface{}{"$set": map[string]interface{}{"fcm_token": token}})
	if err != nil {
		f.t.Fatalf("failed to set fcm token: %v", err)
	}
	user.FCMToken = &token
	return user
}

// CreateMeeting creates an Active test meeting.
func (f *Fixtures) CreateMeeting(ctx context.Context, title string, start time.Time, durationMin int, participants ...string) models.Meeting {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Meeting{
		ID:              primitive.NewObjectID(),
		Title:           title,
		Start:           start,
		End:             start.Add(time.Duration(durationMin) * time.Minute),
		DurationMinutes: durationMin,
		Participants:    participants,
		Attendees:       models.AudienceAllFaculty,
		Status:          models.MeetingActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("meetings").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test meeting: %v", err)
	}
	return m
}

// CreateMeetingWithStatus creates a meeting in a specific lifecycle state.
func (f *Fixtures) CreateMeetingWithStatus(ctx context.Context, title string, start time.Time, status string) models.Meeting {
	f.t.Helper()

	m := f.CreateMeeting(ctx, title, start, 60)
	if status != models.MeetingActive {
		_, err := f.db.Collection("meetings").UpdateByID(ctx, m.ID,
			map[string]interface{}{"$set": map[string]interface{}{"status": status}})
		if err != nil {
			f.t.Fatalf("failed to set meeting status: %v", err)
		}
		m.Status = status
	}
	return m
}
