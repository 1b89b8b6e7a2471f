package controllers

import (
	"bytes"
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

func TestSessionController_CreateSession(t *testing.T) {
	created := &domain.Session{
		ID:       9,
		Duration: 1800,
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Tags:     []*domain.Tag{{ID: 1, Name: "Go"}},
	}

	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
		checkInput     func(t *testing.T, in domain.SessionInput)
	}{
		{
			name:       "success with plain date",
			body:       `{"duration_seconds":1800,"date":"2025-06-01","tag_ids":[1,2]}`,
			wantStatus: http.StatusCreated,
			checkInput: func(t *testing.T, in domain.SessionInput) {
				assert.Equal(t, int64(1800), in.Duration)
				assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), in.Date)
				assert.Equal(t, []int64{1, 2}, in.TagIDs)
			},
		},
		{
			name:       "success with RFC 3339 date and zero duration",
			body:       `{"duration_seconds":0,"date":"2025-06-01T09:30:00Z"}`,
			wantStatus: http.StatusCreated,
			checkInput: func(t *testing.T, in domain.SessionInput) {
				assert.Zero(t, in.Duration)
				assert.True(t, in.Date.Equal(time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)))
				assert.Empty(t, in.TagIDs)
			},
		},
		{name: "missing duration", body: `{"date":"2025-06-01"}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "duration_seconds is required"},
		{name: "missing date", body: `{"duration_seconds":5}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "date is required"},
		{name: "bad date", body: `{"duration_seconds":5,"date":"yesterday"}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "yesterday"},
		{name: "non-positive tag id", body: `{"duration_seconds":5,"date":"2025-06-01","tag_ids":[0]}`, wantStatus: http.StatusBadRequest, wantBodySubstr: "tag_ids"},
		{name: "negative duration", body: `{"duration_seconds":-5,"date":"2025-06-01"}`, fakeErr: domain.ErrInvalidDuration, wantStatus: http.StatusBadRequest, wantBodySubstr: "must not be negative"},
		{name: "future date", body: `{"duration_seconds":5,"date":"2999-01-01"}`, fakeErr: domain.ErrFutureDate, wantStatus: http.StatusBadRequest, wantBodySubstr: "future"},
		{name: "unknown tag", body: `{"duration_seconds":5,"date":"2025-06-01","tag_ids":[77]}`, fakeErr: domain.ErrUnknownTag, wantStatus: http.StatusBadRequest, wantBodySubstr: "unknown tag"},
		{name: "service error", body: `{"duration_seconds":5,"date":"2025-06-01"}`, fakeErr: errors.New("db error"), wantStatus: http.StatusInternalServerError, wantBodySubstr: "db error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTrackerService{err: tt.fakeErr, session: created}
			ctrl := NewSessionController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.CreateSession(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var got domain.Session
			envelope := decodeEnvelope(t, rr, &got)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				assert.Equal(t, int64(9), got.ID)
				assert.Len(t, got.Tags, 1)
				tt.checkInput(t, fake.lastInput)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestSessionController_ListSessions(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTagIDs []int64
	}{
		{name: "no filter", query: "", wantStatus: http.StatusOK},
		{name: "intersection filter", query: "?tag_id=1&tag_id=3", wantStatus: http.StatusOK, wantTagIDs: []int64{1, 3}},
		{name: "invalid tag id", query: "?tag_id=x", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTrackerService{
				sessions: []*domain.Session{{ID: 1, Tags: []*domain.Tag{}}},
				total:    1,
			}
			ctrl := NewSessionController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.ListSessions(rr, httptest.NewRequest(http.MethodGet, "/sessions"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var data ListSessionsResponse
			decodeEnvelope(t, rr, &data)
			assert.Len(t, data.Items, 1)
			assert.Equal(t, 1, data.Pagination.Total)
			assert.Equal(t, tt.wantTagIDs, fake.lastTagIDs)
			assert.Equal(t, domain.PaginationParams{Page: helpers.DefaultPage, PageSize: helpers.DefaultPageSize}, fake.lastParams)
		})
	}
}

func TestSessionController_ByID(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "get success", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "get not found", method: http.MethodGet, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "update success", method: http.MethodPut, body: `{"duration_seconds":60,"date":"2025-06-02","tag_ids":[]}`, wantStatus: http.StatusOK},
		{name: "update not found", method: http.MethodPut, body: `{"duration_seconds":60,"date":"2025-06-02"}`, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "update invalid body", method: http.MethodPut, body: `[]`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "delete success", method: http.MethodDelete, wantStatus: http.StatusNoContent},
		{name: "delete not found", method: http.MethodDelete, fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTrackerService{err: tt.fakeErr, session: &domain.Session{ID: 12, Tags: []*domain.Tag{}}}
			ctrl := NewSessionController(testLogger, fake)
			req := httptest.NewRequest(tt.method, "/sessions/12", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", "12")
			rr := httptest.NewRecorder()

			switch tt.method {
			case http.MethodGet:
				ctrl.GetSession(rr, req)
			case http.MethodPut:
				ctrl.UpdateSession(rr, req)
			case http.MethodDelete:
				ctrl.DeleteSession(rr, req)
			}

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantCode != "" {
				envelope := decodeEnvelope(t, rr, nil)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			assert.Equal(t, int64(12), fake.lastID)
		})
	}
}
