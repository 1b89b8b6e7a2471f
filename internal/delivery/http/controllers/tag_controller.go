package controllers

import (
	"log/slog"
	"net/http"

	"tagtime/internal/delivery/http/helpers"
	"tagtime/internal/domain"
)

// TagRequest is the request body for POST /tags and PUT /tags/{id}.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// TagSuccessResponse is the success response envelope for a single tag.
type TagSuccessResponse struct {
	Data  *domain.Tag       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListTagsResponse is the data payload for GET /tags.
type ListTagsResponse struct {
	Items      []*domain.Tag          `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListTagsSuccessResponse is the success response envelope for GET /tags (200).
type ListTagsSuccessResponse struct {
	Data  ListTagsResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type TagController struct {
	Logger  *slog.Logger
	Service domain.TrackerService
}

func NewTagController(logger *slog.Logger, svc domain.TrackerService) *TagController {
	return &TagController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tag body TagRequest true "Tag name"
// @Success 201 {object} controllers.TagSuccessResponse "data contains the created tag"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags [post]
func (c *TagController) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	tag, err := c.Service.CreateTag(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "tag not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, tag)
}

// ListTags godoc
// @Summary List tags
// @Description Returns tags in creation order. Use page and page_size query params.
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListTagsSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags [get]
func (c *TagController) ListTags(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	tags, total, err := c.Service.ListTags(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "tag not found")
		return
	}
	if tags == nil {
		tags = []*domain.Tag{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListTagsResponse{Items: tags, Pagination: meta})
}

// GetTag godoc
// @Summary Get a tag by ID
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 200 {object} controllers.TagSuccessResponse "data contains the tag"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags/{id} [get]
func (c *TagController) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	tag, err := c.Service.GetTag(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "tag not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tag)
}

// UpdateTag godoc
// @Summary Rename a tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Param tag body TagRequest true "New name"
// @Success 200 {object} controllers.TagSuccessResponse "data contains the renamed tag"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags/{id} [put]
func (c *TagController) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	var req TagRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	tag, err := c.Service.RenameTag(r.Context(), id, req.Name)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "tag not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tag)
}

// DeleteTag godoc
// @Summary Delete a tag
// @Description Deletes the tag and unlinks it from every session. Sessions are kept.
// @Tags tags
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 204 "no content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags/{id} [delete]
func (c *TagController) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	if err := c.Service.DeleteTag(r.Context(), id); err != nil {
		writeServiceError(w, r, c.Logger, err, "tag not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
