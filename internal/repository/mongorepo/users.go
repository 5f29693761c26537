package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name,omitempty"`
	PhotoURL  string             `bson:"photoURL,omitempty"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDoc) model() model.User {
	return model.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Name:      d.Name,
		PhotoURL:  d.PhotoURL,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
	}
}

// CreateUser checks for an existing email before inserting; the unique
// index on email catches the race between two concurrent registrations.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if _, err := s.GetUserByEmail(ctx, u.Email); err == nil {
		return repository.ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	d := userDoc{
		Email:     u.Email,
		Name:      u.Name,
		PhotoURL:  u.PhotoURL,
		Role:      u.Role,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.users.InsertOne(ctx, d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrEmailExists
		}
		return fmt.Errorf("mongorepo: insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	u.CreatedAt = d.CreatedAt
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	cur, err := s.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongorepo: find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongorepo: decode users: %w", err)
	}
	out := make([]model.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var d userDoc
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&d); err != nil {
		return model.User{}, notFound(err)
	}
	return d.model(), nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id, role string) (model.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("mongorepo: update role: %w", err)
	}
	out := model.UpdateResult{Acknowledged: true, MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
	if res.MatchedCount == 0 {
		return out, repository.ErrNotFound
	}
	return out, nil
}
