package library

import (
	"testing"
	"time"

	"github.com/starford/ansuz/internal/models"
)

func snapAt(t time.Time, articles ...*models.Article) *models.Snapshot {
	s := models.NewSnapshot(t)
	for _, a := range articles {
		s.Add(a)
	}
	return s
}

func art(path string, modified time.Time, checksum string, targets ...string) *models.Article {
	links := make([]models.Link, 0, len(targets))
	for _, tg := range targets {
		links = append(links, models.Link{Target: tg, ResolvedPath: tg, IsLocalMarkdown: true})
	}
	return &models.Article{
		Name:         path,
		Path:         path,
		LastModified: modified,
		Checksum:     checksum,
		Links:        links,
	}
}

func kinds(events []models.ChangeEvent) []models.ChangeKind {
	out := make([]models.ChangeKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestDiff_NilPrior(t *testing.T) {
	now := time.Now()
	cur := snapAt(now,
		art("a.md", now, "1", "b.md"),
		art("b.md", now, "2"),
	)
	events := Diff(nil, cur)
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2: %+v", len(events), events)
	}
	if events[0].Kind != models.ArticleAdded || events[0].Path != "a.md" {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Kind != models.ArticleAdded || events[1].Path != "b.md" {
		t.Errorf("events[1] = %+v", events[1])
	}
	for _, e := range events {
		if !e.Timestamp.Equal(now) {
			t.Errorf("timestamp = %v, want scan time %v", e.Timestamp, now)
		}
	}
}

func TestDiff_IdenticalSnapshots(t *testing.T) {
	now := time.Now()
	s := snapAt(now, art("a.md", now, "1", "b.md"), art("b.md", now, "2"))
	if events := Diff(s, s); len(events) != 0 {
		t.Errorf("Diff(S, S) = %+v, want empty", events)
	}
}

func TestDiff_AddRemoveSymmetry(t *testing.T) {
	now := time.Now()
	s1 := snapAt(now, art("a.md", now, "1"), art("b.md", now, "2"))
	s2 := snapAt(now, art("a.md", now, "1"))

	removed := Diff(s1, s2)
	if len(removed) != 1 || removed[0].Kind != models.ArticleRemoved || removed[0].Path != "b.md" {
		t.Errorf("Diff(s1, s2) = %+v, want single article_removed(b.md)", removed)
	}

	added := Diff(s2, s1)
	if len(added) != 1 || added[0].Kind != models.ArticleAdded || added[0].Path != "b.md" {
		t.Errorf("Diff(s2, s1) = %+v, want single article_added(b.md)", added)
	}
}

func TestDiff_RemovalSupersedesLinkEvents(t *testing.T) {
	now := time.Now()
	s1 := snapAt(now, art("a.md", now, "1", "x.md", "y.md"))
	s2 := snapAt(now)
	events := Diff(s1, s2)
	if len(events) != 1 || events[0].Kind != models.ArticleRemoved {
		t.Errorf("events = %+v, want only article_removed", events)
	}
}

func TestDiff_ModifiedByTimestamp(t *testing.T) {
	t0 := time.Now()
	t1 := t0.Add(time.Minute)
	prior := snapAt(t0, art("a.md", t0, "same"))
	cur := snapAt(t1, art("a.md", t1, "same"))
	events := Diff(prior, cur)
	if len(events) != 1 || events[0].Kind != models.ArticleModified {
		t.Errorf("events = %+v, want single article_modified", events)
	}
}

func TestDiff_ModifiedByChecksumOnly(t *testing.T) {
	// Content changed without an mtime bump still counts as modified.
	t0 := time.Now()
	prior := snapAt(t0, art("a.md", t0, "old"))
	cur := snapAt(t0.Add(time.Minute), art("a.md", t0, "new"))
	events := Diff(prior, cur)
	if len(events) != 1 || events[0].Kind != models.ArticleModified {
		t.Errorf("events = %+v, want single article_modified", events)
	}
}

func TestDiff_LinkSymmetricDifference(t *testing.T) {
	t0 := time.Now()
	t1 := t0.Add(time.Minute)
	prior := snapAt(t0, art("a.md", t0, "1", "keep.md", "gone.md"))
	cur := snapAt(t1, art("a.md", t0, "1", "new.md", "keep.md"))

	events := Diff(prior, cur)
	if len(events) != 2 {
		t.Fatalf("events = %+v, want link_added + link_removed", events)
	}
	if events[0].Kind != models.LinkAdded || events[0].Target != "new.md" {
		t.Errorf("events[0] = %+v, want link_added(new.md)", events[0])
	}
	if events[1].Kind != models.LinkRemoved || events[1].Target != "gone.md" {
		t.Errorf("events[1] = %+v, want link_removed(gone.md)", events[1])
	}
}

func TestDiff_LinkDiffRunsWithoutModifiedEvent(t *testing.T) {
	// Same mtime and checksum would normally mean "unchanged", but link
	// comparison still runs for articles present in both snapshots.
	t0 := time.Now()
	prior := snapAt(t0, art("a.md", t0, "1", "old.md"))
	cur := snapAt(t0.Add(time.Minute), art("a.md", t0, "1", "new.md"))

	got := kinds(Diff(prior, cur))
	if len(got) != 2 || got[0] != models.LinkAdded || got[1] != models.LinkRemoved {
		t.Errorf("kinds = %v, want [link_added link_removed]", got)
	}
}

func TestDiff_ReorderingLinksIsSilent(t *testing.T) {
	t0 := time.Now()
	prior := snapAt(t0, art("a.md", t0, "1", "x.md", "y.md"))
	cur := snapAt(t0.Add(time.Minute), art("a.md", t0, "1", "y.md", "x.md"))
	if events := Diff(prior, cur); len(events) != 0 {
		t.Errorf("events = %+v, want none for reordered links", events)
	}
}

func TestDiff_DuplicateLinkOccurrencesCollapse(t *testing.T) {
	t0 := time.Now()
	prior := snapAt(t0, art("a.md", t0, "1"))
	cur := snapAt(t0.Add(time.Minute), art("a.md", t0, "1", "b.md", "b.md"))
	events := Diff(prior, cur)
	if len(events) != 1 || events[0].Kind != models.LinkAdded || events[0].Target != "b.md" {
		t.Errorf("events = %+v, want single link_added(b.md)", events)
	}
}

func TestDiff_OrderFollowsCurrentScanOrder(t *testing.T) {
	t0 := time.Now()
	t1 := t0.Add(time.Minute)
	prior := snapAt(t0, art("old.md", t0, "1"))
	cur := snapAt(t1,
		art("b.md", t1, "2"),
		art("a.md", t1, "3"),
	)
	events := Diff(prior, cur)
	want := []models.ChangeKind{models.ArticleAdded, models.ArticleAdded, models.ArticleRemoved}
	got := kinds(events)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	if events[0].Path != "b.md" || events[1].Path != "a.md" || events[2].Path != "old.md" {
		t.Errorf("event paths = %s, %s, %s; want current order then prior order",
			events[0].Path, events[1].Path, events[2].Path)
	}
}
