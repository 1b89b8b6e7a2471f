package domain

import (
	"context"
	"time"
)

// SessionInput carries the writable fields of a session. TagIDs replaces the whole link set.
type SessionInput struct {
	Duration int64
	Date     time.Time
	TagIDs   []int64
}

// DateRange bounds a stats query. A nil From or To leaves that side open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// TrackerService is the application-level API over tags, sessions and their aggregates.
type TrackerService interface {
	CreateTag(ctx context.Context, name string) (*Tag, error)
	RenameTag(ctx context.Context, id int64, name string) (*Tag, error)
	DeleteTag(ctx context.Context, id int64) error
	GetTag(ctx context.Context, id int64) (*Tag, error)
	ListTags(ctx context.Context, p PaginationParams) ([]*Tag, int, error)

	CreateSession(ctx context.Context, in SessionInput) (*Session, error)
	UpdateSession(ctx context.Context, id int64, in SessionInput) (*Session, error)
	DeleteSession(ctx context.Context, id int64) error
	GetSession(ctx context.Context, id int64) (*Session, error)
	// ListSessions returns the sessions linked to every tag in tagIDs, newest first.
	ListSessions(ctx context.Context, tagIDs []int64, p PaginationParams) ([]*Session, int, error)

	TotalDuration(ctx context.Context) (int64, error)
	DurationForTag(ctx context.Context, tagID int64) (int64, error)
	RankTags(ctx context.Context, p PaginationParams) ([]*TagDuration, int, error)
	DurationForSessions(ctx context.Context, tagIDs []int64, r DateRange) (int64, error)
}
