package model

// InsertResult acknowledges a single insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges a single-document update.  MatchedCount is 1
// when the target existed; ModifiedCount is 0 when the new values equal the
// stored ones.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult acknowledges a delete of one or many documents.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// CourseDeleteResult reports both halves of a cascading course delete.
type CourseDeleteResult struct {
	Enrollments DeleteResult `json:"enrollments"`
	Course      DeleteResult `json:"course"`
}
