package mongorepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository"
)

// courseDoc is the stored shape of a course.
type courseDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Category        string             `bson:"category"`
	Price           float64            `bson:"price"`
	Duration        string             `bson:"duration"`
	Description     string             `bson:"description"`
	Image           string             `bson:"image"`
	InstructorEmail string             `bson:"instructorEmail"`
	IsFeatured      bool               `bson:"isFeatured"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

func (d courseDoc) model() model.Course {
	return model.Course{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Category:        d.Category,
		Price:           d.Price,
		Duration:        d.Duration,
		Description:     d.Description,
		Image:           d.Image,
		InstructorEmail: d.InstructorEmail,
		IsFeatured:      d.IsFeatured,
		CreatedAt:       d.CreatedAt,
	}
}

// courseFilter renders a CourseFilter as a MongoDB query document.  The
// search text is quoted so that it is matched literally.
func courseFilter(f repository.CourseFilter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.FeaturedOnly {
		filter["isFeatured"] = true
	}
	return filter
}

// courseSort renders a CourseSort; _id breaks ties so paging is stable.
func courseSort(s repository.CourseSort) bson.D {
	switch s {
	case repository.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case repository.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	}
}

// courseSet renders the allowed fields of an update as a $set document.
func courseSet(u model.CourseUpdate) bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Duration != nil {
		set["duration"] = *u.Duration
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if u.IsFeatured != nil {
		set["isFeatured"] = *u.IsFeatured
	}
	return set
}

func (s *Store) ListCourses(ctx context.Context, q repository.CourseQuery) ([]model.Course, error) {
	opts := options.Find().
		SetSort(courseSort(q.Sort)).
		SetSkip(q.Skip).
		SetLimit(q.Limit)
	return s.findCourses(ctx, courseFilter(q.Filter), opts)
}

func (s *Store) CountCourses(ctx context.Context, f repository.CourseFilter) (int64, error) {
	n, err := s.courses.CountDocuments(ctx, courseFilter(f))
	if err != nil {
		return 0, fmt.Errorf("mongorepo: count courses: %w", err)
	}
	return n, nil
}

func (s *Store) GetCourse(ctx context.Context, id string) (model.Course, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Course{}, err
	}
	var d courseDoc
	if err := s.courses.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return model.Course{}, notFound(err)
	}
	return d.model(), nil
}

func (s *Store) ListCoursesByInstructor(ctx context.Context, email string) ([]model.Course, error) {
	opts := options.Find().SetSort(courseSort(repository.SortNewest))
	return s.findCourses(ctx, bson.M{"instructorEmail": email}, opts)
}

func (s *Store) CreateCourse(ctx context.Context, c *model.Course) error {
	d := courseDoc{
		Title:           c.Title,
		Category:        c.Category,
		Price:           c.Price,
		Duration:        c.Duration,
		Description:     c.Description,
		Image:           c.Image,
		InstructorEmail: c.InstructorEmail,
		IsFeatured:      c.IsFeatured,
		CreatedAt:       time.Now().UTC(),
	}
	res, err := s.courses.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("mongorepo: insert course: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	c.CreatedAt = d.CreatedAt
	return nil
}

func (s *Store) UpdateCourse(ctx context.Context, id string, u model.CourseUpdate) (model.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	res, err := s.courses.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": courseSet(u)})
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("mongorepo: update course: %w", err)
	}
	out := model.UpdateResult{Acknowledged: true, MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
	if res.MatchedCount == 0 {
		return out, repository.ErrNotFound
	}
	return out, nil
}

// DeleteCourse removes the enrollments of the course first and the course
// itself last, so a failure in between leaves the course in place and the
// delete can simply be retried.
func (s *Store) DeleteCourse(ctx context.Context, id string) (model.CourseDeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.CourseDeleteResult{}, err
	}
	if err := s.courses.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
		return model.CourseDeleteResult{}, notFound(err)
	}

	var out model.CourseDeleteResult
	er, err := s.enrollments.DeleteMany(ctx, bson.M{"courseId": id})
	if err != nil {
		return out, fmt.Errorf("mongorepo: delete enrollments: %w", err)
	}
	out.Enrollments = model.DeleteResult{Acknowledged: true, DeletedCount: er.DeletedCount}

	cr, err := s.courses.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return out, fmt.Errorf("mongorepo: delete course: %w", err)
	}
	out.Course = model.DeleteResult{Acknowledged: true, DeletedCount: cr.DeletedCount}
	return out, nil
}

func (s *Store) findCourses(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Course, error) {
	cur, err := s.courses.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongorepo: find courses: %w", err)
	}
	var docs []courseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongorepo: decode courses: %w", err)
	}
	out := make([]model.Course, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}
