// Package report formats audit results for terminal output. It consumes
// plain data from the audit core and never feeds anything back into it.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/starford/ansuz/internal/models"
)

// Options control what a Printer includes beyond the floating/missing
// summary.
type Options struct {
	AllLinks bool // list every local-markdown link per article
	NonMD    bool // with AllLinks, include non-markdown targets too
}

// Printer writes audit summaries to a writer.
type Printer struct {
	w    io.Writer
	opts Options
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, opts Options) *Printer {
	return &Printer{w: w, opts: opts}
}

// Summary prints the floating and missing listings, preceded by the
// all-links dump when enabled. Listings are sorted for stable output.
func (p *Printer) Summary(snap *models.Snapshot, rep models.Report) {
	if p.opts.AllLinks {
		p.links(snap)
	}

	fmt.Fprintln(p.w, "Floating articles:")
	floating := append([]string(nil), rep.Floating...)
	sort.Strings(floating)
	for _, path := range floating {
		fmt.Fprintf(p.w, "- %s\n", path)
	}

	fmt.Fprintln(p.w, "Missing links:")
	missing := append([]models.Reference(nil), rep.Missing...)
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].Target != missing[j].Target {
			return missing[i].Target < missing[j].Target
		}
		return missing[i].Source < missing[j].Source
	})
	for _, ref := range missing {
		fmt.Fprintf(p.w, "- %s (linked from: %s)\n", ref.Target, ref.Source)
	}
}

// links dumps each article's links: local-markdown targets always, other
// targets when NonMD is set.
func (p *Printer) links(snap *models.Snapshot) {
	fmt.Fprintln(p.w, "All links:")
	paths := append([]string(nil), snap.Order...)
	sort.Strings(paths)
	for _, path := range paths {
		a := snap.Articles[path]
		targets := append([]string(nil), a.LocalTargets()...)
		sort.Strings(targets)
		for _, tg := range targets {
			fmt.Fprintf(p.w, "%s -> %s\n", path, tg)
		}
		if !p.opts.NonMD {
			continue
		}
		var other []string
		for _, l := range a.NonLocalLinks() {
			other = append(other, l.Target)
		}
		sort.Strings(other)
		for _, tg := range other {
			fmt.Fprintf(p.w, "%s -> %s\n", path, tg)
		}
	}
}

// History prints the full change log, one line per event in recorded order.
func (p *Printer) History(log []models.ChangeEvent) {
	fmt.Fprintln(p.w, "Change log:")
	for _, e := range log {
		p.event(e)
	}
}

// Events prints this run's new change events.
func (p *Printer) Events(events []models.ChangeEvent) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintln(p.w, "Changes this run:")
	for _, e := range events {
		p.event(e)
	}
}

func (p *Printer) event(e models.ChangeEvent) {
	ts := e.Timestamp.Format("2006-01-02 15:04:05")
	if e.Target != "" {
		fmt.Fprintf(p.w, "%s  %s  %s -> %s\n", ts, e.Kind, e.Path, e.Target)
		return
	}
	fmt.Fprintf(p.w, "%s  %s  %s\n", ts, e.Kind, e.Path)
}
