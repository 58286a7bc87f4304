package api

import (
	"time"

	"github.com/starford/ansuz/internal/models"
)

// ReportResponse is the audit findings payload for GET /report.
type ReportResponse struct {
	Floating []string           `json:"floating" validate:"required"`
	Missing  []models.Reference `json:"missing" validate:"required"`
	Articles int                `json:"articles" example:"42" validate:"required"`
	Skipped  []string           `json:"skipped,omitempty"`
	RunAt    time.Time          `json:"run_at" validate:"required"`
}

// ArticleListItem is a lightweight item in the article list response.
type ArticleListItem struct {
	Path         string    `json:"path" example:"topics/hello.md" validate:"required"`
	Name         string    `json:"name" example:"hello" validate:"required"`
	Checksum     string    `json:"checksum" example:"abc123..." validate:"required"`
	Links        int       `json:"links" example:"3" validate:"required"`
	LastModified time.Time `json:"last_modified" validate:"required"`
}

// ArticleListResponse wraps the article listing.
type ArticleListResponse struct {
	Articles []ArticleListItem `json:"articles" validate:"required"`
	Total    int               `json:"total" example:"42" validate:"required"`
}

// ArticleDetail is the full article response type for GET /articles/*.
type ArticleDetail struct {
	Path         string        `json:"path" example:"topics/hello.md" validate:"required"`
	Name         string        `json:"name" example:"hello" validate:"required"`
	Checksum     string        `json:"checksum" example:"abc123..." validate:"required"`
	LastModified time.Time     `json:"last_modified" validate:"required"`
	Links        []models.Link `json:"links" validate:"required"`
	Backlinks    []string      `json:"backlinks" validate:"required"`
}

// HistoryResponse wraps the persisted change log.
type HistoryResponse struct {
	Events []models.ChangeEvent `json:"events" validate:"required"`
	Total  int                  `json:"total" example:"17" validate:"required"`
}

// GraphNode is a node in the link graph.
type GraphNode struct {
	ID       string `json:"id" example:"topics/hello.md" validate:"required"`
	Floating bool   `json:"floating" example:"false" validate:"required"`
}

// GraphEdge is an edge in the link graph. Missing marks edges whose target
// does not exist in the library.
type GraphEdge struct {
	Source  string `json:"source" example:"topics/hello.md" validate:"required"`
	Target  string `json:"target" example:"topics/world.md" validate:"required"`
	Missing bool   `json:"missing" example:"false" validate:"required"`
}

// GraphResponse wraps the link graph.
type GraphResponse struct {
	Nodes []GraphNode `json:"nodes" validate:"required"`
	Edges []GraphEdge `json:"edges" validate:"required"`
}
