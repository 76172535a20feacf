// Package userstore persists faculty records.
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/bmsit/facultymeet/internal/app/system/normalize"
	"github.com/bmsit/facultymeet/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an
	// email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadDesignation = errors.New("unrecognized designation")
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index and the designation index
// audience resolution queries against.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email"),
		},
		{
			Keys:    bson.D{{Key: "designation", Value: 1}},
			Options: options.Index().SetName("idx_user_designation"),
		},
		{
			Keys:    bson.D{{Key: "fcm_token", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_user_fcm_token"),
		},
	})
	return err
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = "active"
	}

	if !models.IsValidDesignation(u.Designation) {
		return models.User{}, errBadDesignation
	}
	if u.Status != "active" && u.Status != "disabled" {
		return models.User{}, errBadStatus
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// FacultyUpdate holds the fields that can be updated for a faculty record.
type FacultyUpdate struct {
	FullName    string
	Email       string
	Department  string
	Designation string
	Status      string
}

// Update rewrites a faculty record's profile fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd FacultyUpdate) error {
	if !models.IsValidDesignation(upd.Designation) {
		return errBadDesignation
	}
	set := bson.M{
		"full_name":    normalize.Name(upd.FullName),
		"full_name_ci": text.Fold(upd.FullName),
		"email":        normalize.Email(upd.Email),
		"department":   upd.Department,
		"designation":  upd.Designation,
		"status":       upd.Status,
		"updated_at":   time.Now(),
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Delete removes a user by ID. Returns the number of documents deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns all users sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByDesignations returns users whose designation is in the given set. This
// is the role-whitelist query behind audience resolution.
func (s *Store) ByDesignations(ctx context.Context, designations []string) ([]models.User, error) {
	if len(designations) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"designation": bson.M{"$in": designations}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByIDs returns the users whose hex ids appear in ids. Ids that do not
// parse or do not resolve to a record are skipped, which is how a Custom
// audience list filters out stale entries.
func (s *Store) ByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetFCMToken registers (or with an empty token clears) the push delivery
// address for a user.
func (s *Store) SetFCMToken(ctx context.Context, id primitive.ObjectID, token string) error {
	var update bson.M
	if token == "" {
		update = bson.M{"$unset": bson.M{"fcm_token": ""}, "$set": bson.M{"updated_at": time.Now()}}
	} else {
		update = bson.M{"$set": bson.M{"fcm_token": token, "updated_at": time.Now()}}
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// ClearTokens removes the given delivery addresses from whichever users
// hold them. Used for best-effort cleanup after the push gateway reports a
// token permanently invalid.
func (s *Store) ClearTokens(ctx context.Context, tokens []string) (int64, error) {
	if len(tokens) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"fcm_token": bson.M{"$in": tokens}},
		bson.M{"$unset": bson.M{"fcm_token": ""}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
