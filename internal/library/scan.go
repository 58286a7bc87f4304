// Package library implements the audit core: building a snapshot of the
// document library, diffing it against a prior snapshot, and classifying
// floating articles and missing links.
package library

import (
	"log/slog"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Scan reads every document the provider lists and builds a fresh snapshot
// stamped with scanTime. Documents that cannot be read are skipped and
// returned in the second value; a read failure never fails the scan.
func Scan(store storage.Provider, exts []string, scanTime time.Time, logger *slog.Logger) (*models.Snapshot, []string, error) {
	metas, err := store.List()
	if err != nil {
		return nil, nil, err
	}

	snap := models.NewSnapshot(scanTime)
	var skipped []string
	for _, m := range metas {
		data, readErr := store.Read(m.Path)
		if readErr != nil {
			logger.Warn("scan: read failed", slog.String("path", m.Path), slog.String("error", readErr.Error()))
			skipped = append(skipped, m.Path)
			continue
		}
		snap.Add(buildArticle(m, data, exts))
		logger.Debug("scan: article", slog.String("path", m.Path))
	}
	return snap, skipped, nil
}

func buildArticle(m storage.DocMetadata, data []byte, exts []string) *models.Article {
	raw := parser.ExtractLinks(data)
	links := make([]models.Link, 0, len(raw))
	for _, target := range raw {
		resolved, local := parser.Resolve(target, m.Path, exts)
		links = append(links, models.Link{
			Target:          target,
			ResolvedPath:    resolved,
			IsLocalMarkdown: local,
		})
	}
	return &models.Article{
		Name:         parser.Stem(m.Path),
		Path:         m.Path,
		LastModified: m.LastModified,
		Checksum:     checksum.Sum(data),
		Links:        links,
	}
}
