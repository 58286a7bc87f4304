// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz audit tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/auditor"
	"github.com/starford/ansuz/internal/library"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp *server.MCPServer
	svc *auditor.Service
}

// New creates a new MCP server with all Ansuz tools registered.
func New(svc *auditor.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("run_audit",
		mcp.WithDescription("Run a full audit pass over the library: scan, diff against "+
			"the cached snapshot, and report floating articles and missing links. "+
			"The result shape is described by the ansuz://report-format resource."),
	), s.runAudit)

	s.mcp.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Return the findings of the most recent audit without rescanning."),
	), s.getReport)

	s.mcp.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Return the persisted change log: every article and link "+
			"change ever recorded for this library, oldest first."),
	), s.getHistory)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List all article paths in the latest library snapshot."),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all articles that link to the specified article."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the article to find backlinks for (e.g. topics/note.md)")),
	), s.getBacklinks)

	// Resource: report format description.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://report-format", "Audit Report Format",
			mcp.WithResourceDescription("JSON shape of the audit report and change log returned by the tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readReportFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) runAudit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.Run()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.svc.Latest()
	if res == nil {
		return mcp.NewToolResultError("no audit has completed yet, call run_audit first"), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := s.svc.History()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("no recorded changes"), nil
	}
	out, _ := json.MarshalIndent(events, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.svc.Latest()
	if res == nil {
		return mcp.NewToolResultError("no audit has completed yet, call run_audit first"), nil
	}
	if res.Snapshot.Len() == 0 {
		return mcp.NewToolResultText("library is empty"), nil
	}
	return mcp.NewToolResultText(strings.Join(res.Snapshot.Order, "\n")), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := s.svc.Latest()
	if res == nil {
		return mcp.NewToolResultError("no audit has completed yet, call run_audit first"), nil
	}
	if _, found := res.Snapshot.Articles[path]; !found {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	bl := library.Backlinks(res.Snapshot, path)
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) readReportFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://report-format",
			MIMEType: "text/markdown",
			Text:     ReportFormatContract,
		},
	}, nil
}
