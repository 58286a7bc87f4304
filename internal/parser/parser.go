// Package parser extracts inline Markdown link targets from document text
// and resolves them against the library root.
package parser

import (
	"path"
	"regexp"
	"strings"
)

// Matches the closing half of an inline Markdown link: "](target)",
// with optional whitespace between ']' and '('.
var inlineLinkRe = regexp.MustCompile(`\]\s?\(([^)]*)\)`)

// ExtractLinks returns every inline link target in data, in order of
// appearance. Duplicates are preserved: each occurrence is a distinct
// reference site. Targets inside fenced code blocks are ignored.
func ExtractLinks(data []byte) []string {
	var out []string
	inFence := false
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, m := range inlineLinkRe.FindAllStringSubmatch(line, -1) {
			target := strings.TrimSpace(m[1])
			if target == "" {
				continue
			}
			out = append(out, target)
		}
	}
	return out
}

// Resolve normalizes a raw link target against the document containing it.
// source is the containing document's library-relative path (slash
// separated). It returns the library-relative resolved path and whether the
// target points at a local document with a recognized extension.
//
// External URLs, absolute paths, and targets that escape the library root
// are not local; their resolved path is empty.
func Resolve(target, source string, exts []string) (string, bool) {
	t := target
	// Strip fragment and query; "B.md#section" still targets B.md.
	if i := strings.IndexAny(t, "#?"); i >= 0 {
		t = t[:i]
	}
	if t == "" || strings.Contains(t, "://") || strings.HasPrefix(t, "mailto:") {
		return "", false
	}
	if path.IsAbs(t) {
		return "", false
	}
	resolved := path.Clean(path.Join(path.Dir(source), t))
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return "", false
	}
	return resolved, hasExt(resolved, exts)
}

func hasExt(p string, exts []string) bool {
	lower := strings.ToLower(p)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

// Stem returns the document name with its extension stripped.
func Stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
