package domain

import "context"

// Tag represents a named label shared across sessions.
// swagger:model Tag
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagDuration pairs a tag with the summed duration (seconds) of its linked sessions.
// swagger:model TagDuration
type TagDuration struct {
	Tag      *Tag  `json:"tag"`
	Duration int64 `json:"duration_seconds"`
}

// TagRepository defines storage for tags.
type TagRepository interface {
	// Create inserts a tag and returns its ID. An empty name is rejected with (NoID, nil).
	Create(ctx context.Context, name string) (int64, error)
	// Update renames the tag matched by ID. Empty names and unknown IDs are silently ignored.
	Update(ctx context.Context, tag *Tag) error
	// Delete removes the tag and every link referencing it.
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
	ListPage(ctx context.Context, p PaginationParams) ([]*Tag, error)
	Count(ctx context.Context) (int, error)
}
