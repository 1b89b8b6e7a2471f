package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"tagtime/internal/delivery/http/helpers"
	"tagtime/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeTrackerService implements domain.TrackerService for handler tests.
type fakeTrackerService struct {
	err error

	tag      *domain.Tag
	tags     []*domain.Tag
	session  *domain.Session
	sessions []*domain.Session
	ranked   []*domain.TagDuration
	total    int
	duration int64

	lastName   string
	lastID     int64
	lastTagIDs []int64
	lastParams domain.PaginationParams
	lastInput  domain.SessionInput
	lastRange  domain.DateRange
}

func (f *fakeTrackerService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	f.lastName = name
	return f.tag, f.err
}

func (f *fakeTrackerService) RenameTag(ctx context.Context, id int64, name string) (*domain.Tag, error) {
	f.lastID, f.lastName = id, name
	return f.tag, f.err
}

func (f *fakeTrackerService) DeleteTag(ctx context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func (f *fakeTrackerService) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	f.lastID = id
	return f.tag, f.err
}

func (f *fakeTrackerService) ListTags(ctx context.Context, p domain.PaginationParams) ([]*domain.Tag, int, error) {
	f.lastParams = p
	return f.tags, f.total, f.err
}

func (f *fakeTrackerService) CreateSession(ctx context.Context, in domain.SessionInput) (*domain.Session, error) {
	f.lastInput = in
	return f.session, f.err
}

func (f *fakeTrackerService) UpdateSession(ctx context.Context, id int64, in domain.SessionInput) (*domain.Session, error) {
	f.lastID, f.lastInput = id, in
	return f.session, f.err
}

func (f *fakeTrackerService) DeleteSession(ctx context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func (f *fakeTrackerService) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	f.lastID = id
	return f.session, f.err
}

func (f *fakeTrackerService) ListSessions(ctx context.Context, tagIDs []int64, p domain.PaginationParams) ([]*domain.Session, int, error) {
	f.lastTagIDs, f.lastParams = tagIDs, p
	return f.sessions, f.total, f.err
}

func (f *fakeTrackerService) TotalDuration(ctx context.Context) (int64, error) {
	return f.duration, f.err
}

func (f *fakeTrackerService) DurationForTag(ctx context.Context, tagID int64) (int64, error) {
	f.lastID = tagID
	return f.duration, f.err
}

func (f *fakeTrackerService) RankTags(ctx context.Context, p domain.PaginationParams) ([]*domain.TagDuration, int, error) {
	f.lastParams = p
	return f.ranked, f.total, f.err
}

func (f *fakeTrackerService) DurationForSessions(ctx context.Context, tagIDs []int64, r domain.DateRange) (int64, error) {
	f.lastTagIDs, f.lastRange = tagIDs, r
	return f.duration, f.err
}

// decodeEnvelope decodes the response envelope and, when data is non-nil, its data field into data.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if data != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, data))
	}
	return envelope
}
