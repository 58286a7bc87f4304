package library

import (
	"github.com/starford/ansuz/internal/models"
)

// Classify computes the floating and missing sets for a snapshot.
//
// An article is floating when no *other* article links to it through a
// local-markdown link; self-references do not count. A missing entry is one
// local-markdown link whose resolved target matches no article in the
// snapshot, reported per source article with the literal target string
// (duplicate occurrences within one article collapse to one entry).
//
// Classification never errors; an empty snapshot yields an empty report.
func Classify(snap *models.Snapshot) models.Report {
	incoming := make(map[string]map[string]struct{}) // target path -> distinct source paths
	var missing []models.Reference

	for _, srcPath := range snap.Order {
		src := snap.Articles[srcPath]
		reported := make(map[string]struct{})
		for _, l := range src.Links {
			if !l.IsLocalMarkdown {
				continue
			}
			if _, done := reported[l.ResolvedPath]; done {
				continue
			}
			reported[l.ResolvedPath] = struct{}{}

			if _, exists := snap.Articles[l.ResolvedPath]; !exists {
				missing = append(missing, models.Reference{Source: srcPath, Target: l.Target})
				continue
			}
			if l.ResolvedPath == srcPath {
				continue // self-reference
			}
			if incoming[l.ResolvedPath] == nil {
				incoming[l.ResolvedPath] = make(map[string]struct{})
			}
			incoming[l.ResolvedPath][srcPath] = struct{}{}
		}
	}

	var floating []string
	for _, path := range snap.Order {
		if len(incoming[path]) == 0 {
			floating = append(floating, path)
		}
	}

	return models.Report{Floating: floating, Missing: missing}
}

// Backlinks returns the distinct articles whose local-markdown links
// resolve to target, in snapshot scan order. Unlike the floating
// classification, self-references are included.
func Backlinks(snap *models.Snapshot, target string) []string {
	var out []string
	for _, srcPath := range snap.Order {
		for _, l := range snap.Articles[srcPath].Links {
			if l.IsLocalMarkdown && l.ResolvedPath == target {
				out = append(out, srcPath)
				break
			}
		}
	}
	return out
}
