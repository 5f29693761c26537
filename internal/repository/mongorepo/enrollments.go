package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository"
)

type enrollmentDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	CourseID       string             `bson:"courseId"`
	CourseTitle    string             `bson:"courseTitle"`
	StudentEmail   string             `bson:"studentEmail"`
	EnrollmentDate time.Time          `bson:"enrollmentDate"`
}

func (d enrollmentDoc) model() model.Enrollment {
	return model.Enrollment{
		ID:             d.ID.Hex(),
		CourseID:       d.CourseID,
		CourseTitle:    d.CourseTitle,
		StudentEmail:   d.StudentEmail,
		EnrollmentDate: d.EnrollmentDate,
	}
}

func (s *Store) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	if _, err := s.FindEnrollment(ctx, e.CourseID, e.StudentEmail); err == nil {
		return repository.ErrAlreadyEnrolled
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	d := enrollmentDoc{
		CourseID:       e.CourseID,
		CourseTitle:    e.CourseTitle,
		StudentEmail:   e.StudentEmail,
		EnrollmentDate: time.Now().UTC(),
	}
	res, err := s.enrollments.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("mongorepo: insert enrollment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid.Hex()
	}
	e.EnrollmentDate = d.EnrollmentDate
	return nil
}

func (s *Store) FindEnrollment(ctx context.Context, courseID, studentEmail string) (model.Enrollment, error) {
	var d enrollmentDoc
	err := s.enrollments.FindOne(ctx, bson.M{"courseId": courseID, "studentEmail": studentEmail}).Decode(&d)
	if err != nil {
		return model.Enrollment{}, notFound(err)
	}
	return d.model(), nil
}

func (s *Store) ListEnrollmentsByStudent(ctx context.Context, email string) ([]model.Enrollment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "enrollmentDate", Value: -1}})
	cur, err := s.enrollments.Find(ctx, bson.M{"studentEmail": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongorepo: find enrollments: %w", err)
	}
	var docs []enrollmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongorepo: decode enrollments: %w", err)
	}
	out := make([]model.Enrollment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}
