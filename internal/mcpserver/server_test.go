package mcpserver

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/auditor"
	"github.com/starford/ansuz/internal/testutil"
)

func testServer(t *testing.T, docs map[string]string) *Server {
	t.Helper()

	_, store := testutil.TestLibrary(t, docs)
	logger := slog.New(slog.DiscardHandler)
	svc := auditor.New(store, testutil.TestState(t), testutil.Extensions, logger)
	return New(svc)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so we invoke the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "run_audit":
		result, err = srv.runAudit(ctx, req)
	case "get_report":
		result, err = srv.getReport(ctx, req)
	case "get_history":
		result, err = srv.getHistory(ctx, req)
	case "list_articles":
		result, err = srv.listArticles(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestRunAuditReportsFindings(t *testing.T) {
	srv := testServer(t, map[string]string{
		"a.md": "see [b](b.md) and [ghost](ghost.md)",
		"b.md": "plain text",
	})

	r := callTool(t, srv, "run_audit", nil)
	if r.IsError {
		t.Fatalf("run_audit failed: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"a.md"`) || !strings.Contains(text, `"ghost.md"`) {
		t.Errorf("report missing findings: %s", text)
	}
}

func TestGetReportRequiresRun(t *testing.T) {
	srv := testServer(t, nil)

	r := callTool(t, srv, "get_report", nil)
	if !r.IsError {
		t.Error("expected error before first run")
	}

	callTool(t, srv, "run_audit", nil)
	r = callTool(t, srv, "get_report", nil)
	if r.IsError {
		t.Errorf("get_report after run failed: %s", resultText(r))
	}
}

func TestListArticles(t *testing.T) {
	srv := testServer(t, map[string]string{
		"a.md": "a",
		"b.md": "b",
	})
	callTool(t, srv, "run_audit", nil)

	r := callTool(t, srv, "list_articles", nil)
	text := resultText(r)
	if text != "a.md\nb.md" {
		t.Errorf("list_articles = %q", text)
	}
}

func TestGetBacklinks(t *testing.T) {
	srv := testServer(t, map[string]string{
		"a.md": "links to [b](b.md)",
		"b.md": "plain text",
	})
	callTool(t, srv, "run_audit", nil)

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"path": "b.md"})
	if text := resultText(r); text != "a.md" {
		t.Errorf("backlinks = %q, want a.md", text)
	}

	r = callTool(t, srv, "get_backlinks", map[string]interface{}{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for unknown article")
	}
}

func TestGetHistory(t *testing.T) {
	srv := testServer(t, map[string]string{"a.md": "a"})

	r := callTool(t, srv, "get_history", nil)
	if text := resultText(r); text != "no recorded changes" {
		t.Errorf("empty history = %q", text)
	}

	callTool(t, srv, "run_audit", nil)
	r = callTool(t, srv, "get_history", nil)
	if text := resultText(r); !strings.Contains(text, "article_added") {
		t.Errorf("history missing addition: %s", text)
	}
}
