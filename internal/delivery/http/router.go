package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"tagtime/internal/delivery/http/controllers"
	"tagtime/internal/delivery/http/middleware"
)

// Controllers groups the handlers served by NewRouter.
type Controllers struct {
	Tags     *controllers.TagController
	Sessions *controllers.SessionController
	Stats    *controllers.StatsController
}

// NewRouter initializes the HTTP router with all application routes. Every API route is
// wrapped with auth; the Swagger UI is not.
func NewRouter(c Controllers, auth func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	// Tags
	mux.HandleFunc("GET /tags", auth(c.Tags.ListTags))
	mux.HandleFunc("POST /tags", auth(c.Tags.CreateTag))
	mux.HandleFunc("GET /tags/{id}", auth(c.Tags.GetTag))
	mux.HandleFunc("PUT /tags/{id}", auth(c.Tags.UpdateTag))
	mux.HandleFunc("DELETE /tags/{id}", auth(c.Tags.DeleteTag))

	// Sessions
	mux.HandleFunc("GET /sessions", auth(c.Sessions.ListSessions))
	mux.HandleFunc("POST /sessions", auth(c.Sessions.CreateSession))
	mux.HandleFunc("GET /sessions/{id}", auth(c.Sessions.GetSession))
	mux.HandleFunc("PUT /sessions/{id}", auth(c.Sessions.UpdateSession))
	mux.HandleFunc("DELETE /sessions/{id}", auth(c.Sessions.DeleteSession))

	// Stats
	mux.HandleFunc("GET /stats/total", auth(c.Stats.Total))
	mux.HandleFunc("GET /stats/tags", auth(c.Stats.RankTags))
	mux.HandleFunc("GET /stats/tags/{id}", auth(c.Stats.TagTotal))
	mux.HandleFunc("GET /stats/sessions", auth(c.Stats.SessionsTotal))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with request IDs, request logging and CORS.
func NewHandler(logger *slog.Logger, mux *http.ServeMux, corsOrigins []string) http.Handler {
	return middleware.RequestID(middleware.LoggingMiddleware(logger, middleware.CORS(corsOrigins, mux)))
}
