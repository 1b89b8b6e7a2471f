package domain

import (
	"context"
	"time"
)

// StatsRepository answers read-only aggregate queries. All durations are in seconds.
type StatsRepository interface {
	TotalDuration(ctx context.Context) (int64, error)
	DurationForTag(ctx context.Context, tagID int64) (int64, error)
	// TagsByDuration ranks tags with at least one linked session by summed duration, descending.
	TagsByDuration(ctx context.Context) ([]*TagDuration, error)
	TagsByDurationPage(ctx context.Context, p PaginationParams) ([]*TagDuration, error)
	// CountRankedTags returns the number of tags TagsByDuration would rank.
	CountRankedTags(ctx context.Context) (int, error)
	DurationForSessionsWithTags(ctx context.Context, tagIDs []int64) (int64, error)
	// DurationForSessionsWithTagsInRange bounds the sessions to start <= date <= end.
	DurationForSessionsWithTagsInRange(ctx context.Context, tagIDs []int64, start, end time.Time) (int64, error)
}
