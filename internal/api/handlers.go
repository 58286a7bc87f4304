package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/ansuz/internal/auditor"
	"github.com/starford/ansuz/internal/library"
	"github.com/starford/ansuz/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *auditor.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *auditor.Service) *Handler {
	return &Handler{svc: svc}
}

// articlePath extracts the article path from the URL (everything after
// /api/articles/). Supports encoded slashes (e.g. topics%2Farticle.md).
func articlePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// latest returns the most recent audit result or writes a 503 if no audit
// has completed yet.
func (h *Handler) latest(w http.ResponseWriter) (*auditor.Result, bool) {
	res := h.svc.Latest()
	if res == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("no audit has completed yet"))
		return nil, false
	}
	return res, true
}

// GetReport handles GET /api/report.
//
//	@Summary		Get the latest audit findings
//	@Tags			report
//	@Produce		json
//	@Success		200	{object}	ReportResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/report [get]
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	res, ok := h.latest(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, reportResponse(res))
}

// RunAudit handles POST /api/audit.
//
//	@Summary		Trigger an audit pass and return its findings
//	@Tags			report
//	@Produce		json
//	@Success		200	{object}	ReportResponse
//	@Failure		500	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/audit [post]
func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Run()
	if err != nil {
		slog.Error("audit failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, reportResponse(res))
}

// GetHistory handles GET /api/history.
//
//	@Summary		Get the persisted change log
//	@Tags			history
//	@Produce		json
//	@Success		200	{object}	HistoryResponse
//	@Failure		500	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/history [get]
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.History()
	if err != nil {
		slog.Error("load history failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if events == nil {
		events = []models.ChangeEvent{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Events: events, Total: len(events)})
}

// ListArticles handles GET /api/articles.
//
//	@Summary		List articles from the latest snapshot
//	@Tags			articles
//	@Produce		json
//	@Success		200	{object}	ArticleListResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles [get]
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	res, ok := h.latest(w)
	if !ok {
		return
	}
	items := make([]ArticleListItem, 0, res.Snapshot.Len())
	for _, path := range res.Snapshot.Order {
		a := res.Snapshot.Articles[path]
		items = append(items, ArticleListItem{
			Path:         a.Path,
			Name:         a.Name,
			Checksum:     a.Checksum,
			Links:        len(a.Links),
			LastModified: a.LastModified,
		})
	}
	writeJSON(w, http.StatusOK, ArticleListResponse{Articles: items, Total: len(items)})
}

// GetArticle handles GET /api/articles/*.
//
//	@Summary		Get one article with its links and backlinks
//	@Tags			articles
//	@Produce		json
//	@Param			path	path		string	true	"Article path"
//	@Success		200		{object}	ArticleDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{path} [get]
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	path := articlePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	res, ok := h.latest(w)
	if !ok {
		return
	}
	a, found := res.Snapshot.Articles[path]
	if !found {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	bl := library.Backlinks(res.Snapshot, path)
	if bl == nil {
		bl = []string{}
	}
	links := a.Links
	if links == nil {
		links = []models.Link{}
	}
	writeJSON(w, http.StatusOK, ArticleDetail{
		Path:         a.Path,
		Name:         a.Name,
		Checksum:     a.Checksum,
		LastModified: a.LastModified,
		Links:        links,
		Backlinks:    bl,
	})
}

// GetGraph handles GET /api/graph.
//
//	@Summary		Get the article link graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) GetGraph(w http.ResponseWriter, r *http.Request) {
	res, ok := h.latest(w)
	if !ok {
		return
	}

	floating := make(map[string]bool, len(res.Report.Floating))
	for _, p := range res.Report.Floating {
		floating[p] = true
	}

	nodes := make([]GraphNode, 0, res.Snapshot.Len())
	edges := []GraphEdge{}
	for _, path := range res.Snapshot.Order {
		nodes = append(nodes, GraphNode{ID: path, Floating: floating[path]})
		for _, target := range res.Snapshot.Articles[path].LocalTargets() {
			_, exists := res.Snapshot.Articles[target]
			edges = append(edges, GraphEdge{Source: path, Target: target, Missing: !exists})
		}
	}
	writeJSON(w, http.StatusOK, GraphResponse{Nodes: nodes, Edges: edges})
}

func reportResponse(res *auditor.Result) ReportResponse {
	floating := res.Report.Floating
	if floating == nil {
		floating = []string{}
	}
	missing := res.Report.Missing
	if missing == nil {
		missing = []models.Reference{}
	}
	return ReportResponse{
		Floating: floating,
		Missing:  missing,
		Articles: res.Snapshot.Len(),
		Skipped:  res.Skipped,
		RunAt:    res.RunAt,
	}
}
