package domain

import "errors"

// Sentinel errors shared by repositories and services.
var (
	// ErrNotFound is returned when a looked-up entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDuration is returned when a session duration is negative.
	ErrInvalidDuration = errors.New("session duration must not be negative")

	// ErrFutureDate is returned when a session is dated after the end of the current day.
	ErrFutureDate = errors.New("session date is in the future")

	// ErrEmptyTagName is returned by the service layer for a blank tag name.
	ErrEmptyTagName = errors.New("tag name must not be empty")

	// ErrUnknownTag is returned when a session references a tag that does not exist.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrInvalidRange is returned when a date range ends before it starts.
	ErrInvalidRange = errors.New("date range ends before it starts")

	// ErrUnsupportedMigration is returned when the store was written by a newer schema
	// version than this binary knows how to read.
	ErrUnsupportedMigration = errors.New("unsupported schema migration")
)

// NoID is returned in place of an identity when a write was rejected without error.
const NoID int64 = -1
