package domain

import (
	"context"
	"time"
)

// Session is a recorded block of time. Tags is materialized from the link table on read.
// swagger:model Session
type Session struct {
	ID       int64     `json:"id"`
	Duration int64     `json:"duration_seconds"`
	Date     time.Time `json:"date"`
	Tags     []*Tag    `json:"tags"`
}

// NewSession returns a new Session with the given fields. ID is set by the repository on create.
func NewSession(duration int64, date time.Time, tags []*Tag) *Session {
	return &Session{
		Duration: duration,
		Date:     date,
		Tags:     tags,
	}
}

// Validate checks the session invariants against the end of the day containing now.
func (s *Session) Validate(now time.Time) error {
	if s.Duration < 0 {
		return ErrInvalidDuration
	}
	if s.Date.After(EndOfDay(now)) {
		return ErrFutureDate
	}
	return nil
}

// SessionRepository defines storage for sessions. Create and Update replace the session's
// tag links as part of the same write.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) (int64, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id int64) error
	// GetDataByID returns the session row without tags.
	GetDataByID(ctx context.Context, id int64) (*Session, error)
	// GetByID returns the session with its tags.
	GetByID(ctx context.Context, id int64) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	ListPage(ctx context.Context, p PaginationParams) ([]*Session, error)
	// ListByIDs restricts the listing to ids. An empty ids yields an empty result.
	ListByIDs(ctx context.Context, ids []int64) ([]*Session, error)
	ListByIDsPage(ctx context.Context, ids []int64, p PaginationParams) ([]*Session, error)
}

// SessionTagRepository defines storage for the session/tag join table.
type SessionTagRepository interface {
	AddLink(ctx context.Context, tagID, sessionID int64) error
	RemoveLink(ctx context.Context, tagID, sessionID int64) error
	TagIDsForSession(ctx context.Context, sessionID int64) ([]int64, error)
	SessionIDsForTag(ctx context.Context, tagID int64) ([]int64, error)
	DeleteLinksForSession(ctx context.Context, sessionID int64) error
	DeleteLinksForTag(ctx context.Context, tagID int64) error
	// SessionsMatchingTags returns the sessions linked to every tag in tagIDs.
	// An empty tagIDs places no constraint and returns all sessions.
	SessionsMatchingTags(ctx context.Context, tagIDs []int64) ([]*Session, error)
	SessionsMatchingTagsPage(ctx context.Context, tagIDs []int64, p PaginationParams) ([]*Session, error)
	CountSessionsMatchingTags(ctx context.Context, tagIDs []int64) (int, error)
}
