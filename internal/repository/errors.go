// Package repository defines the storage contracts shared by every backing
// store together with the error values they return.  These sentinel values
// allow higher layers such as handlers to distinguish between failure
// scenarios without knowing which driver produced them.  Any error that is
// not one of these sentinels is a store failure.
package repository

import "errors"

// ErrNotFound is returned when the requested record does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user with the same email is already
// registered.  Handlers should translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrAlreadyEnrolled is returned when a student enrolls twice in the same
// course.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// ErrInvalidArgument is returned when a query or identifier cannot be
// interpreted, e.g. a non-positive page size or a malformed id.
var ErrInvalidArgument = errors.New("invalid argument")
