package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/launchdesk/internal/app/system/normalize"
	"github.com/dalemusser/launchdesk/internal/app/system/status"
	"github.com/dalemusser/launchdesk/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "user"|"admin"|"superadmin"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
	errBadUserType    = errors.New(`user_type must be "student"|"entrepreneur"`)
)

// EnsureIndexes creates the unique email index that backs user identity,
// plus the secondary indexes the admin console filters on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_email"),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "full_name_ci", Value: 1}},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
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

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = "user"
	}
	if u.Status == "" {
		u.Status = status.Active
	}

	switch u.Role {
	case "user", "admin", "superadmin":
		// ok
	default:
		return models.User{}, errBadRole
	}

	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	if u.UserType != "" {
		switch normalize.UserType(u.UserType) {
		case "student", "entrepreneur":
			u.UserType = normalize.UserType(u.UserType)
		default:
			return models.User{}, errBadUserType
		}
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

// FindOrCreateFromGoogle resolves the user for a completed Google sign-in.
// An existing user is matched by email; missing users are created with the
// base role. Returns (user, created, error). Disabled accounts are still
// returned so the caller can reject the sign-in and audit it.
func (s *Store) FindOrCreateFromGoogle(ctx context.Context, fullName, email, avatarURL, googleID string) (*models.User, bool, error) {
	email = normalize.Email(email)

	existing, err := s.GetByEmail(ctx, email)
	if err == nil {
		// Refresh profile fields that Google owns.
		set := bson.M{
			"avatar_url": avatarURL,
			"updated_at": time.Now(),
		}
		if existing.AuthReturnID == nil {
			set["auth_return_id"] = googleID
		}
		if _, err := s.c.UpdateByID(ctx, existing.ID, bson.M{"$set": set}); err != nil {
			return nil, false, err
		}
		existing.AvatarURL = avatarURL
		return existing, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	created, err := s.Create(ctx, models.User{
		FullName:     fullName,
		Email:        email,
		AvatarURL:    avatarURL,
		AuthMethod:   "google",
		AuthReturnID: &googleID,
		Role:         "user",
	})
	if err != nil {
		// Lost a race against a concurrent first sign-in for the same email.
		if errors.Is(err, ErrDuplicateEmail) {
			u, gerr := s.GetByEmail(ctx, email)
			if gerr != nil {
				return nil, false, gerr
			}
			return u, false, nil
		}
		return nil, false, err
	}
	return &created, true, nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Role     string
	Status   string
	UserType string
	Limit    int64
	Offset   int64
}

// List returns users matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = normalize.Role(filter.Role)
	}
	if filter.Status != "" {
		query["status"] = normalize.Status(filter.Status)
	}
	if filter.UserType != "" {
		query["user_type"] = normalize.UserType(filter.UserType)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetRole changes a user's role. Returns the matched count so callers can
// distinguish "no such user" from success.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) (int64, error) {
	role = normalize.Role(role)
	switch role {
	case "user", "admin", "superadmin":
	default:
		return 0, errBadRole
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// SetStatus enables or disables a user account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) (int64, error) {
	st = normalize.Status(st)
	if !status.IsValid(st) {
		return 0, errBadStatus
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// UpsertAdmin creates or promotes an admin account keyed by email. Used by
// the provisioning tool and the startup superadmin check. Returns the user
// and whether it was created fresh.
func (s *Store) UpsertAdmin(ctx context.Context, fullName, email, role string) (*models.User, bool, error) {
	email = normalize.Email(email)
	fullName = normalize.Name(fullName)
	role = normalize.Role(role)
	switch role {
	case "admin", "superadmin":
	default:
		return nil, false, errBadRole
	}

	existing, err := s.GetByEmail(ctx, email)
	if err == nil {
		set := bson.M{
			"role":       role,
			"status":     status.Active,
			"updated_at": time.Now(),
		}
		if fullName != "" {
			set["full_name"] = fullName
			set["full_name_ci"] = text.Fold(fullName)
		}
		if _, err := s.c.UpdateByID(ctx, existing.ID, bson.M{"$set": set}); err != nil {
			return nil, false, err
		}
		existing.Role = role
		existing.Status = status.Active
		return existing, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	created, err := s.Create(ctx, models.User{
		FullName:   fullName,
		Email:      email,
		AuthMethod: "google",
		Role:       role,
	})
	if err != nil {
		return nil, false, err
	}
	return &created, true, nil
}

// CountByRole returns the number of users holding the given role.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": normalize.Role(role)})
}
