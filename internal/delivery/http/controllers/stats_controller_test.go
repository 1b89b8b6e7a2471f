package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tagtime/internal/delivery/http/helpers"
	"tagtime/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsController_Total(t *testing.T) {
	tests := []struct {
		name       string
		fakeErr    error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "service error", fakeErr: errors.New("db error"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewStatsController(testLogger, &fakeTrackerService{err: tt.fakeErr, duration: 5400})
			rr := httptest.NewRecorder()

			ctrl.Total(rr, httptest.NewRequest(http.MethodGet, "/stats/total", nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			var data DurationResponse
			envelope := decodeEnvelope(t, rr, &data)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, int64(5400), data.DurationSeconds)
			}
		})
	}
}

func TestStatsController_RankTags(t *testing.T) {
	fake := &fakeTrackerService{
		ranked: []*domain.TagDuration{{Tag: &domain.Tag{ID: 2, Name: "b"}, Duration: 90}},
		total:  3,
	}
	ctrl := NewStatsController(testLogger, fake)
	rr := httptest.NewRecorder()

	ctrl.RankTags(rr, httptest.NewRequest(http.MethodGet, "/stats/tags?page=1&page_size=1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var data RankTagsResponse
	decodeEnvelope(t, rr, &data)
	require.Len(t, data.Items, 1)
	assert.Equal(t, int64(90), data.Items[0].Duration)
	assert.Equal(t, "b", data.Items[0].Tag.Name)
	assert.Equal(t, 3, data.Pagination.TotalPages)
}

func TestStatsController_TagTotal(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		fakeErr    error
		wantStatus int
	}{
		{name: "success", id: "2", wantStatus: http.StatusOK},
		{name: "unknown tag", id: "2", fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "bad id", id: "two", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTrackerService{err: tt.fakeErr, duration: 30}
			ctrl := NewStatsController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/stats/tags/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rr := httptest.NewRecorder()

			ctrl.TagTotal(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, int64(2), fake.lastID)
			}
		})
	}
}

func TestStatsController_SessionsTotal(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		fakeErr    error
		wantStatus int
		wantCode   string
		check      func(t *testing.T, f *fakeTrackerService)
	}{
		{
			name:       "tags and closed range",
			query:      "?tag_id=1,2&from=2025-06-01&to=2025-06-07",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f *fakeTrackerService) {
				assert.Equal(t, []int64{1, 2}, f.lastTagIDs)
				require.NotNil(t, f.lastRange.From)
				require.NotNil(t, f.lastRange.To)
				assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), *f.lastRange.From)
				assert.Equal(t, domain.EndOfDay(time.Date(2025, 6, 7, 0, 0, 0, 0, time.Local)), *f.lastRange.To)
			},
		},
		{
			name:       "no bounds",
			query:      "",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f *fakeTrackerService) {
				assert.Nil(t, f.lastRange.From)
				assert.Nil(t, f.lastRange.To)
				assert.Empty(t, f.lastTagIDs)
			},
		},
		{name: "bad from", query: "?from=soon", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "inverted range", query: "?from=2025-06-07&to=2025-06-01", fakeErr: domain.ErrInvalidRange, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTrackerService{err: tt.fakeErr, duration: 120}
			ctrl := NewStatsController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.SessionsTotal(rr, httptest.NewRequest(http.MethodGet, "/stats/sessions"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			var data DurationResponse
			envelope := decodeEnvelope(t, rr, &data)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			assert.Equal(t, int64(120), data.DurationSeconds)
			tt.check(t, fake)
		})
	}
}
