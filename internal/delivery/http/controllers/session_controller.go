package controllers

import (
	"log/slog"
	"net/http"

	"tagtime/internal/delivery/http/helpers"
	"tagtime/internal/domain"
)

// SessionRequest is the request body for POST /sessions and PUT /sessions/{id}.
// Date accepts YYYY-MM-DD (local midnight) or RFC 3339. TagIDs replaces the session's tags.
type SessionRequest struct {
	DurationSeconds *int64  `json:"duration_seconds" validate:"required"`
	Date            string  `json:"date" validate:"required"`
	TagIDs          []int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

func (s SessionRequest) input() (domain.SessionInput, error) {
	date, err := helpers.ParseTime(s.Date, false)
	if err != nil {
		return domain.SessionInput{}, err
	}
	return domain.SessionInput{Duration: *s.DurationSeconds, Date: date, TagIDs: s.TagIDs}, nil
}

// SessionSuccessResponse is the success response envelope for a single session.
type SessionSuccessResponse struct {
	Data  *domain.Session   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListSessionsResponse is the data payload for GET /sessions.
type ListSessionsResponse struct {
	Items      []*domain.Session      `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListSessionsSuccessResponse is the success response envelope for GET /sessions (200).
type ListSessionsSuccessResponse struct {
	Data  ListSessionsResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type SessionController struct {
	Logger  *slog.Logger
	Service domain.TrackerService
}

func NewSessionController(logger *slog.Logger, svc domain.TrackerService) *SessionController {
	return &SessionController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSession godoc
// @Summary Record a session
// @Description Records a session with a non-negative duration, dated no later than today, linked to the given tags.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body SessionRequest true "Session data"
// @Success 201 {object} controllers.SessionSuccessResponse "data contains the created session with its tags"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	session, err := c.Service.CreateSession(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "session not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, session)
}

// ListSessions godoc
// @Summary List sessions
// @Description Returns sessions newest first. Repeating tag_id keeps only sessions carrying every listed tag.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param tag_id query []int false "Tag IDs the session must all carry" collectionFormat(multi)
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListSessionsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions [get]
func (c *SessionController) ListSessions(w http.ResponseWriter, r *http.Request) {
	tagIDs, err := helpers.QueryIDs(r, "tag_id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	params := helpers.ParsePagination(r)
	sessions, total, err := c.Service.ListSessions(r.Context(), tagIDs, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "session not found")
		return
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListSessionsResponse{Items: sessions, Pagination: meta})
}

// GetSession godoc
// @Summary Get a session by ID
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} controllers.SessionSuccessResponse "data contains the session with its tags"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{id} [get]
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	session, err := c.Service.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "session not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, session)
}

// UpdateSession godoc
// @Summary Replace a session
// @Description Overwrites duration and date and replaces the whole tag set.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param session body SessionRequest true "Session data"
// @Success 200 {object} controllers.SessionSuccessResponse "data contains the updated session"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{id} [put]
func (c *SessionController) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	var req SessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	session, err := c.Service.UpdateSession(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "session not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, session)
}

// DeleteSession godoc
// @Summary Delete a session
// @Description Deletes the session and its tag links. Tags are kept.
// @Tags sessions
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 204 "no content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/{id} [delete]
func (c *SessionController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	if err := c.Service.DeleteSession(r.Context(), id); err != nil {
		writeServiceError(w, r, c.Logger, err, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
