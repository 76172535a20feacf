// Package meetingstore persists meeting documents.
package meetingstore

import (
	"context"
	"errors"
	"time"

	"github.com/bmsit/facultymeet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrEndBeforeStart is returned when a meeting's end does not come after
	// its start.
	ErrEndBeforeStart = errors.New("meeting end must be after start")
	errBadStatus      = errors.New(`status must be "Active"|"Cancelled"|"Completed"`)
	errBadAudience    = errors.New("unrecognized audience tag")

	// ErrNotActive is returned for transitions attempted on a meeting that
	// is no longer Active. Cancelled and Completed are terminal.
	ErrNotActive = errors.New("meeting is not active")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meetings")}
}

// EnsureIndexes creates the indexes the sweeps and snapshot queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("idx_meeting_status_start"),
		},
		{
			Keys:    bson.D{{Key: "participants", Value: 1}},
			Options: options.Index().SetName("idx_meeting_participants"),
		},
	})
	return err
}

// GetByID loads a meeting by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Meeting, error) {
	var m models.Meeting
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new meeting after validating fields. The record always
// starts Active.
func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	m.ID = primitive.NewObjectID()
	if m.Status == "" {
		m.Status = models.MeetingActive
	}
	if m.Status != models.MeetingActive {
		return models.Meeting{}, errBadStatus
	}
	if !models.IsValidAudienceTag(m.Attendees) {
		return models.Meeting{}, errBadAudience
	}
	if m.DurationMinutes <= 0 {
		m.DurationMinutes = 60
	}
	if m.End.IsZero() {
		m.End = m.Start.Add(time.Duration(m.DurationMinutes) * time.Minute)
	}
	if !m.End.After(m.Start) {
		return models.Meeting{}, ErrEndBeforeStart
	}

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// Update holds the fields a reschedule/edit may change. End-versus-start
// ordering is validated at creation only; edits trust the caller's check.
type Update struct {
	Title             string
	Start             time.Time
	End               time.Time
	Location          string
	Description       string
	Participants      []string
	Attendees         string
	CustomAttendeeIDs []string
}

// ApplyUpdate rewrites an Active meeting's editable fields and returns the
// new state. Returns ErrNotActive when the meeting has already reached a
// terminal state.
func (s *Store) ApplyUpdate(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Meeting, error) {
	if !models.IsValidAudienceTag(upd.Attendees) {
		return nil, errBadAudience
	}
	set := bson.M{
		"title":               upd.Title,
		"start":               upd.Start,
		"end":                 upd.End,
		"location":            upd.Location,
		"description":         upd.Description,
		"participants":        upd.Participants,
		"attendees":           upd.Attendees,
		"custom_attendee_ids": upd.CustomAttendeeIDs,
		"updated_at":          time.Now(),
	}
	// A reschedule re-arms the start notifier for the new time.
	update := bson.M{"$set": set, "$unset": bson.M{"start_notified_at": ""}}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var m models.Meeting
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": models.MeetingActive}, update, opts).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotActive
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Cancel transitions an Active meeting to Cancelled. Terminal states return
// ErrNotActive.
func (s *Store) Cancel(ctx context.Context, id primitive.ObjectID) (*models.Meeting, error) {
	update := bson.M{"$set": bson.M{
		"status":     models.MeetingCancelled,
		"updated_at": time.Now(),
	}}
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var m models.Meeting
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": models.MeetingActive}, update, opts).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotActive
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListRange returns meetings whose start falls in [from, to), newest first.
func (s *Store) ListRange(ctx context.Context, from, to time.Time) ([]models.Meeting, error) {
	filter := bson.M{"start": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: -1}})
	return s.find(ctx, filter, opts)
}

// ActiveSnapshot returns every Active meeting. This is the snapshot the
// availability checker scans; callers re-fetch it immediately before an
// authoritative write.
func (s *Store) ActiveSnapshot(ctx context.Context) ([]models.Meeting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	return s.find(ctx, bson.M{"status": models.MeetingActive}, opts)
}

// ActiveDue returns Active meetings that have already started as of now.
func (s *Store) ActiveDue(ctx context.Context, now time.Time) ([]models.Meeting, error) {
	filter := bson.M{
		"status": models.MeetingActive,
		"start":  bson.M{"$lte": now},
	}
	return s.find(ctx, filter, nil)
}

// ActiveStartingBetween returns Active meetings starting inside [lo, hi]
// that have not yet been announced by the start notifier.
func (s *Store) ActiveStartingBetween(ctx context.Context, lo, hi time.Time) ([]models.Meeting, error) {
	filter := bson.M{
		"status":            models.MeetingActive,
		"start":             bson.M{"$gte": lo, "$lte": hi},
		"start_notified_at": bson.M{"$exists": false},
	}
	return s.find(ctx, filter, nil)
}

// CompleteMeetings flips the given meetings to Completed with endTime=now in
// a single unordered bulk write. Returns the number modified.
func (s *Store) CompleteMeetings(ctx context.Context, ids []primitive.ObjectID, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	writes := make([]mongo.WriteModel, 0, len(ids))
	for _, id := range ids {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id, "status": models.MeetingActive}).
			SetUpdate(bson.M{"$set": bson.M{
				"status":     models.MeetingCompleted,
				"end_time":   now,
				"updated_at": now,
			}}))
	}
	res, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MarkStartNotified records that the start notifier fired for a meeting.
func (s *Store) MarkStartNotified(ctx context.Context, id primitive.ObjectID, now time.Time) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"start_notified_at": now}})
	return err
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Meeting, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = s.c.Find(ctx, filter, opts)
	} else {
		cur, err = s.c.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Meeting
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
