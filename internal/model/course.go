package model

import "time"

// Course is a purchasable course listed in the marketplace.  JSON names
// follow the wire format consumed by the frontend, which is why the
// identifier is exposed as "_id".
//
// Fields:
//  ID              – opaque identifier assigned by the store.
//  Title           – human readable title; the target of free-text search.
//  Category        – open-set label used by the category filter.
//  Price           – list price.
//  Duration        – free-form duration text (e.g. "6 weeks").
//  Description     – long description.
//  Image           – image URL.
//  InstructorEmail – email of the instructor owning the course.
//  IsFeatured      – whether the course is promoted on the home page.
//  CreatedAt       – set by the server on insert and never changed.
type Course struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Category        string    `json:"category"`
	Price           float64   `json:"price"`
	Duration        string    `json:"duration"`
	Description     string    `json:"description"`
	Image           string    `json:"image"`
	InstructorEmail string    `json:"instructorEmail"`
	IsFeatured      bool      `json:"isFeatured"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CourseUpdate lists the course fields a client may change.  Nil fields are
// left untouched.  Identifier, owner and creation time are deliberately
// absent so that they cannot be overwritten through an update.
type CourseUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Duration    *string  `json:"duration,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
	IsFeatured  *bool    `json:"isFeatured,omitempty"`
}

// Empty reports whether the update sets no field at all.
func (u CourseUpdate) Empty() bool {
	return u.Title == nil && u.Category == nil && u.Price == nil && u.Duration == nil &&
		u.Description == nil && u.Image == nil && u.IsFeatured == nil
}

// Apply copies the set fields of u onto c.
func (u CourseUpdate) Apply(c *Course) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Category != nil {
		c.Category = *u.Category
	}
	if u.Price != nil {
		c.Price = *u.Price
	}
	if u.Duration != nil {
		c.Duration = *u.Duration
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Image != nil {
		c.Image = *u.Image
	}
	if u.IsFeatured != nil {
		c.IsFeatured = *u.IsFeatured
	}
}
