// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow handlers to
// distinguish failure scenarios without string matching, e.g. mapping
// a missing event to HTTP 404 rather than a generic 500.
package repository

import "errors"

// ErrEventNotFound is returned when an event id does not resolve to an
// existing event record.
var ErrEventNotFound = errors.New("event not found")

// ErrAttendeeNotFound is returned when an attendee id does not resolve
// to an existing attendee record.
var ErrAttendeeNotFound = errors.New("attendee not found")

// ErrEmailExists is returned when registering an operator with an email
// that is already taken.
var ErrEmailExists = errors.New("email already exists")
