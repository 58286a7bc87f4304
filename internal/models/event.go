package models

import "time"

// ChangeKind enumerates the change-log event types.
type ChangeKind string

// Change event kinds.
const (
	ArticleAdded    ChangeKind = "article_added"
	ArticleRemoved  ChangeKind = "article_removed"
	ArticleModified ChangeKind = "article_modified"
	LinkAdded       ChangeKind = "link_added"
	LinkRemoved     ChangeKind = "link_removed"
)

// ChangeEvent is one recorded difference between two snapshots. Target is
// set for link-level events only. Events are immutable once appended to the
// change log; the log is only ever extended.
type ChangeEvent struct {
	Kind      ChangeKind `json:"kind"`
	Path      string     `json:"path"`
	Target    string     `json:"target,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
