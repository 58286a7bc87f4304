package library

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/storage"
)

var discard = slog.New(slog.DiscardHandler)

// fakeProvider serves documents from memory; paths in failing return a read
// error to exercise the skip policy.
type fakeProvider struct {
	docs    map[string]string
	order   []string
	failing map[string]struct{}
	modTime time.Time
}

func (f *fakeProvider) List() ([]storage.DocMetadata, error) {
	var out []storage.DocMetadata
	for _, p := range f.order {
		out = append(out, storage.DocMetadata{Path: p, LastModified: f.modTime})
	}
	return out, nil
}

func (f *fakeProvider) Read(path string) ([]byte, error) {
	if _, bad := f.failing[path]; bad {
		return nil, errors.New("boom")
	}
	return []byte(f.docs[path]), nil
}

func TestScan_BuildsSnapshot(t *testing.T) {
	now := time.Now()
	p := &fakeProvider{
		docs: map[string]string{
			"A.md": "link to [B](B.md) and [web](https://example.com)",
			"B.md": "no links here",
		},
		order:   []string{"A.md", "B.md"},
		modTime: now,
	}
	snap, skipped, err := Scan(p, []string{".md"}, now, discard)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
	if snap.Len() != 2 {
		t.Fatalf("snapshot has %d articles, want 2", snap.Len())
	}
	a := snap.Articles["A.md"]
	if a.Name != "A" {
		t.Errorf("name = %q, want A", a.Name)
	}
	if len(a.Links) != 2 {
		t.Fatalf("A links = %+v, want 2", a.Links)
	}
	if !a.Links[0].IsLocalMarkdown || a.Links[0].ResolvedPath != "B.md" {
		t.Errorf("first link = %+v", a.Links[0])
	}
	if a.Links[1].IsLocalMarkdown {
		t.Errorf("URL link should not be local markdown: %+v", a.Links[1])
	}
	if snap.Articles["B.md"].Checksum == a.Checksum {
		t.Error("different contents must have different checksums")
	}
}

func TestScan_ReadFailureSkipsDocument(t *testing.T) {
	now := time.Now()
	p := &fakeProvider{
		docs:    map[string]string{"ok.md": "fine", "bad.md": ""},
		order:   []string{"bad.md", "ok.md"},
		failing: map[string]struct{}{"bad.md": {}},
		modTime: now,
	}
	snap, skipped, err := Scan(p, []string{".md"}, now, discard)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "bad.md" {
		t.Errorf("skipped = %v, want [bad.md]", skipped)
	}
	if snap.Len() != 1 {
		t.Errorf("snapshot has %d articles, want 1", snap.Len())
	}
}

func TestScan_OrderFollowsListing(t *testing.T) {
	now := time.Now()
	p := &fakeProvider{
		docs:    map[string]string{"z.md": "", "a.md": "", "m.md": ""},
		order:   []string{"z.md", "a.md", "m.md"},
		modTime: now,
	}
	snap, _, err := Scan(p, []string{".md"}, now, discard)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"z.md", "a.md", "m.md"}
	for i, path := range want {
		if snap.Order[i] != path {
			t.Fatalf("order = %v, want %v", snap.Order, want)
		}
	}
}
