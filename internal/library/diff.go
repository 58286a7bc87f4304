package library

import (
	"time"

	"github.com/starford/ansuz/internal/models"
)

// Diff compares a freshly scanned snapshot against the prior persisted one
// and returns the change events, stamped with current.ScanTime.
//
// A nil prior (first run, or caching disabled) yields exactly one
// article_added per article and nothing else. A removed article yields a
// single article_removed; its link differences are not enumerated (removal
// supersedes). For articles present in both snapshots, link sets are
// compared unconditionally (an edit that does not bump the mtime still
// surfaces as link events) by resolved-target identity, so reordering
// existing links produces nothing.
//
// Event order is deterministic: articles in current scan order, then
// removals in prior scan order.
func Diff(prior, current *models.Snapshot) []models.ChangeEvent {
	var events []models.ChangeEvent
	at := current.ScanTime

	if prior == nil {
		for _, path := range current.Order {
			events = append(events, models.ChangeEvent{Kind: models.ArticleAdded, Path: path, Timestamp: at})
		}
		return events
	}

	for _, path := range current.Order {
		cur := current.Articles[path]
		old, ok := prior.Articles[path]
		if !ok {
			events = append(events, models.ChangeEvent{Kind: models.ArticleAdded, Path: path, Timestamp: at})
			continue
		}
		if !old.LastModified.Equal(cur.LastModified) || old.Checksum != cur.Checksum {
			events = append(events, models.ChangeEvent{Kind: models.ArticleModified, Path: path, Timestamp: at})
		}
		events = append(events, diffLinks(old, cur, at)...)
	}

	for _, path := range prior.Order {
		if _, ok := current.Articles[path]; !ok {
			events = append(events, models.ChangeEvent{Kind: models.ArticleRemoved, Path: path, Timestamp: at})
		}
	}

	return events
}

// diffLinks emits link_added/link_removed events as the symmetric
// difference of the two articles' link-identity sets. Added links follow
// current appearance order, removed links follow prior appearance order.
func diffLinks(old, cur *models.Article, at time.Time) []models.ChangeEvent {
	oldSet := linkSet(old)
	curSet := linkSet(cur)

	var events []models.ChangeEvent
	emitted := make(map[string]struct{})
	for _, l := range cur.Links {
		key := l.Key()
		if _, existed := oldSet[key]; existed {
			continue
		}
		if _, done := emitted[key]; done {
			continue
		}
		emitted[key] = struct{}{}
		events = append(events, models.ChangeEvent{Kind: models.LinkAdded, Path: cur.Path, Target: l.Target, Timestamp: at})
	}
	for _, l := range old.Links {
		key := l.Key()
		if _, exists := curSet[key]; exists {
			continue
		}
		if _, done := emitted[key]; done {
			continue
		}
		emitted[key] = struct{}{}
		events = append(events, models.ChangeEvent{Kind: models.LinkRemoved, Path: cur.Path, Target: l.Target, Timestamp: at})
	}
	return events
}

func linkSet(a *models.Article) map[string]struct{} {
	set := make(map[string]struct{}, len(a.Links))
	for _, l := range a.Links {
		set[l.Key()] = struct{}{}
	}
	return set
}
