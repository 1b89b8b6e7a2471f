package controllers

import (
	"log/slog"
	"net/http"

	"tagtime/internal/delivery/http/helpers"
	"tagtime/internal/domain"
)

// DurationResponse is the data payload of every summed-duration endpoint.
type DurationResponse struct {
	DurationSeconds int64 `json:"duration_seconds"`
}

// DurationSuccessResponse is the success response envelope for summed durations (200).
type DurationSuccessResponse struct {
	Data  DurationResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RankTagsResponse is the data payload for GET /stats/tags.
type RankTagsResponse struct {
	Items      []*domain.TagDuration  `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// RankTagsSuccessResponse is the success response envelope for GET /stats/tags (200).
type RankTagsSuccessResponse struct {
	Data  RankTagsResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type StatsController struct {
	Logger  *slog.Logger
	Service domain.TrackerService
}

func NewStatsController(logger *slog.Logger, svc domain.TrackerService) *StatsController {
	return &StatsController{
		Logger:  logger,
		Service: svc,
	}
}

// Total godoc
// @Summary Total tracked time
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.DurationSuccessResponse "data contains the summed duration of every session"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats/total [get]
func (c *StatsController) Total(w http.ResponseWriter, r *http.Request) {
	total, err := c.Service.TotalDuration(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DurationResponse{DurationSeconds: total})
}

// RankTags godoc
// @Summary Tags ranked by tracked time
// @Description Tags with at least one session, by summed duration descending. Ties keep tag ID order.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.RankTagsSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats/tags [get]
func (c *StatsController) RankTags(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	ranked, total, err := c.Service.RankTags(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "not found")
		return
	}
	if ranked == nil {
		ranked = []*domain.TagDuration{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, RankTagsResponse{Items: ranked, Pagination: meta})
}

// TagTotal godoc
// @Summary Tracked time for one tag
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 200 {object} controllers.DurationSuccessResponse "data contains the summed duration of the tag's sessions"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats/tags/{id} [get]
func (c *StatsController) TagTotal(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	total, err := c.Service.DurationForTag(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "tag not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DurationResponse{DurationSeconds: total})
}

// SessionsTotal godoc
// @Summary Tracked time for matching sessions
// @Description Sums sessions carrying every listed tag, optionally bounded by from <= date <= to. A plain "to" date covers the whole day.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param tag_id query []int false "Tag IDs the session must all carry" collectionFormat(multi)
// @Param from query string false "Lower bound, YYYY-MM-DD or RFC 3339"
// @Param to query string false "Upper bound, YYYY-MM-DD or RFC 3339"
// @Success 200 {object} controllers.DurationSuccessResponse "data contains the summed duration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats/sessions [get]
func (c *StatsController) SessionsTotal(w http.ResponseWriter, r *http.Request) {
	tagIDs, err := helpers.QueryIDs(r, "tag_id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	from, err := helpers.QueryTime(r, "from", false)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	to, err := helpers.QueryTime(r, "to", true)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	total, err := c.Service.DurationForSessions(r.Context(), tagIDs, domain.DateRange{From: from, To: to})
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DurationResponse{DurationSeconds: total})
}
