// Package models defines the domain types for Ansuz.
package models

import "time"

// Link is one extracted reference from a source document, in the order it
// appears in the text. ResolvedPath is the target normalized relative to the
// library root, or empty when the target does not point into the library at
// all (web URL, absolute path, relative path escaping the root). A non-empty
// ResolvedPath may still name a non-document file such as an image;
// IsLocalMarkdown is the flag consumers gate on.
type Link struct {
	Target          string `json:"target"`
	ResolvedPath    string `json:"resolved_path,omitempty"`
	IsLocalMarkdown bool   `json:"is_local_markdown"`
}

// Key returns the identity used for link-set comparison: the resolved path
// for local documents, the literal target otherwise.
func (l Link) Key() string {
	if l.IsLocalMarkdown {
		return l.ResolvedPath
	}
	return l.Target
}

// Article represents one scanned document in the library.
//
// Links preserves appearance order and duplicate occurrences; classification
// dedupes by resolved target, diffing compares resolved-target sets.
type Article struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	LastModified time.Time `json:"last_modified"`
	Checksum     string    `json:"checksum"`
	Links        []Link    `json:"links,omitempty"`
}

// LocalTargets returns the deduplicated resolved paths of the article's
// local-markdown links, in first-appearance order.
func (a *Article) LocalTargets() []string {
	seen := make(map[string]struct{}, len(a.Links))
	var out []string
	for _, l := range a.Links {
		if !l.IsLocalMarkdown {
			continue
		}
		if _, ok := seen[l.ResolvedPath]; ok {
			continue
		}
		seen[l.ResolvedPath] = struct{}{}
		out = append(out, l.ResolvedPath)
	}
	return out
}

// NonLocalLinks returns the links that do not point at local documents.
func (a *Article) NonLocalLinks() []Link {
	var out []Link
	for _, l := range a.Links {
		if !l.IsLocalMarkdown {
			out = append(out, l)
		}
	}
	return out
}

// Snapshot is the complete scanned state of a library at one point in time.
// Articles is keyed by library-relative path; Order preserves the order in
// which articles were encountered during the scan, which keeps diff output
// deterministic.
type Snapshot struct {
	Articles map[string]*Article `json:"articles"`
	Order    []string            `json:"order"`
	ScanTime time.Time           `json:"scan_time"`
}

// NewSnapshot creates an empty snapshot stamped with the given scan time.
func NewSnapshot(scanTime time.Time) *Snapshot {
	return &Snapshot{
		Articles: make(map[string]*Article),
		ScanTime: scanTime,
	}
}

// Add inserts an article, recording encounter order. A duplicate path
// replaces the stored article without extending Order.
func (s *Snapshot) Add(a *Article) {
	if _, ok := s.Articles[a.Path]; !ok {
		s.Order = append(s.Order, a.Path)
	}
	s.Articles[a.Path] = a
}

// Len returns the number of articles in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Articles)
}
