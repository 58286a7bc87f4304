package models

// Reference records one link occurrence: the article it was found in and the
// literal target string as written in the source text.
type Reference struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Report is the classification result for one snapshot: articles nobody
// links to, and local-markdown links whose target does not exist. Plain
// data, formatting is the presentation layer's concern.
type Report struct {
	Floating []string    `json:"floating"`
	Missing  []Reference `json:"missing"`
}
