package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/ansuz/internal/auditor"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *auditor.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Audit findings.
	r.Get("/report", h.GetReport)
	r.Post("/audit", h.RunAudit)

	// Change log.
	r.Get("/history", h.GetHistory)

	// Snapshot contents.
	r.Get("/articles", h.ListArticles)
	r.Get("/articles/*", h.GetArticle)

	// Graph.
	r.Get("/graph", h.GetGraph)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
