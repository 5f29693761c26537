// Package mongorepo implements repository.Store on top of MongoDB.  Each
// entity lives in its own collection: courses, enrollments and users.
package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/educare-hub/internal/repository"
)

const (
	coursesCollection     = "courses"
	enrollmentsCollection = "enrollments"
	usersCollection       = "users"
)

// Store holds handles to the three collections of one database.
type Store struct {
	client      *mongo.Client
	courses     *mongo.Collection
	enrollments *mongo.Collection
	users       *mongo.Collection
}

var _ repository.Store = (*Store)(nil)

// New binds a Store to the named database.  The client stays owned by the
// Store and is disconnected by Close.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:      client,
		courses:     db.Collection(coursesCollection),
		enrollments: db.Collection(enrollmentsCollection),
		users:       db.Collection(usersCollection),
	}
}

// EnsureIndexes creates the indexes the queries rely on.  It is idempotent
// and safe to call on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("mongorepo: users index: %w", err)
	}
	if _, err := s.enrollments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "courseId", Value: 1}}},
		{Keys: bson.D{{Key: "studentEmail", Value: 1}, {Key: "courseId", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("mongorepo: enrollments index: %w", err)
	}
	if _, err := s.courses.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "instructorEmail", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("mongorepo: courses index: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// objectID parses a hex identifier coming from a URL.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed id %q", repository.ErrInvalidArgument, id)
	}
	return oid, nil
}

// notFound maps the driver's "no documents" error to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}
