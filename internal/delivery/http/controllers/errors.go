package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"tagtime/internal/delivery/http/helpers"
	"tagtime/internal/delivery/http/middleware"
	"tagtime/internal/domain"
)

// writeServiceError maps a service error to the response envelope. Unexpected errors are
// logged with the request ID and answered with 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrFutureDate),
		errors.Is(err, domain.ErrEmptyTagName),
		errors.Is(err, domain.ErrUnknownTag),
		errors.Is(err, domain.ErrInvalidRange):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
