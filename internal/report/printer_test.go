package report

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/models"
)

func sampleSnapshot() *models.Snapshot {
	snap := models.NewSnapshot(time.Now())
	snap.Add(&models.Article{
		Name: "A", Path: "A.md",
		Links: []models.Link{
			{Target: "B.md", ResolvedPath: "B.md", IsLocalMarkdown: true},
			{Target: "https://example.com", IsLocalMarkdown: false},
		},
	})
	snap.Add(&models.Article{Name: "B", Path: "B.md"})
	return snap
}

func TestSummary_FloatingAndMissing(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, Options{})
	p.Summary(sampleSnapshot(), models.Report{
		Floating: []string{"A.md"},
		Missing:  []models.Reference{{Source: "A.md", Target: "ghost.md"}},
	})
	out := sb.String()
	if !strings.Contains(out, "Floating articles:\n- A.md") {
		t.Errorf("missing floating section:\n%s", out)
	}
	if !strings.Contains(out, "- ghost.md (linked from: A.md)") {
		t.Errorf("missing missing-link line:\n%s", out)
	}
	if strings.Contains(out, "All links:") {
		t.Errorf("all-links dump should be off by default:\n%s", out)
	}
}

func TestSummary_AllLinks(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, Options{AllLinks: true})
	p.Summary(sampleSnapshot(), models.Report{})
	out := sb.String()
	if !strings.Contains(out, "A.md -> B.md") {
		t.Errorf("expected local link line:\n%s", out)
	}
	if strings.Contains(out, "example.com") {
		t.Errorf("non-markdown link should need NonMD:\n%s", out)
	}
}

func TestSummary_AllLinksWithNonMD(t *testing.T) {
	var sb strings.Builder
	p := NewPrinter(&sb, Options{AllLinks: true, NonMD: true})
	p.Summary(sampleSnapshot(), models.Report{})
	if !strings.Contains(sb.String(), "A.md -> https://example.com") {
		t.Errorf("expected non-markdown link line:\n%s", sb.String())
	}
}

func TestHistoryAndEvents(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	log := []models.ChangeEvent{
		{Kind: models.ArticleAdded, Path: "A.md", Timestamp: ts},
		{Kind: models.LinkAdded, Path: "A.md", Target: "B.md", Timestamp: ts},
	}

	var sb strings.Builder
	p := NewPrinter(&sb, Options{})
	p.History(log)
	out := sb.String()
	if !strings.Contains(out, "article_added  A.md") {
		t.Errorf("history output:\n%s", out)
	}
	if !strings.Contains(out, "link_added  A.md -> B.md") {
		t.Errorf("history output:\n%s", out)
	}

	sb.Reset()
	p.Events(nil)
	if sb.Len() != 0 {
		t.Errorf("no events should print nothing, got %q", sb.String())
	}
}
