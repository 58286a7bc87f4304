// Package auditor coordinates one audit pass: scan the library, diff
// against the persisted snapshot, classify, and persist the result.
package auditor

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/library"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/state"
	"github.com/starford/ansuz/internal/storage"
)

// Result is the outcome of one audit run, plain data for presentation.
type Result struct {
	Snapshot *models.Snapshot     `json:"-"`
	Report   models.Report        `json:"report"`
	Events   []models.ChangeEvent `json:"events"`  // this run's new events
	Log      []models.ChangeEvent `json:"-"`       // full history including this run
	Skipped  []string             `json:"skipped,omitempty"` // unreadable documents
	RunAt    time.Time            `json:"run_at"`
}

// Service runs audits over one library. A nil store disables persistence:
// every run behaves like a first run and nothing is saved.
type Service struct {
	store  storage.Provider
	st     state.Store
	exts   []string
	logger *slog.Logger

	// runMu serializes audit passes. Watch mode and the HTTP audit
	// endpoint share one Service; overlapping runs would both load the
	// same prior snapshot and append their events twice.
	runMu sync.Mutex

	mu     sync.RWMutex
	latest *Result
}

// New creates an audit service. st may be nil (caching disabled).
func New(store storage.Provider, st state.Store, exts []string, logger *slog.Logger) *Service {
	return &Service{store: store, st: st, exts: exts, logger: logger}
}

// Run executes one full audit pass. The pipeline is strictly sequential:
// scan, load prior, diff, classify, persist. A corrupt prior state degrades
// to the no-prior case with a warning; a failed save is reported but does
// not invalidate the run's findings. Concurrent calls are serialized so
// the change log records each run exactly once.
func (s *Service) Run() (*Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	scanTime := time.Now()

	snap, skipped, err := library.Scan(s.store, s.exts, scanTime, s.logger)
	if err != nil {
		return nil, err
	}
	if snap.Len() == 0 {
		s.logger.Warn("audit: no documents found in library")
	}

	prior, log, persist := s.loadPrior()

	events := library.Diff(prior, snap)
	for _, e := range events {
		s.logger.Debug("audit: change",
			slog.String("kind", string(e.Kind)),
			slog.String("path", e.Path),
			slog.String("target", e.Target))
	}

	rep := library.Classify(snap)

	if s.st != nil && persist {
		if saveErr := s.st.Save(snap, events); saveErr != nil {
			s.logger.Error("audit: persist failed, findings unaffected", slog.String("error", saveErr.Error()))
		}
	}

	res := &Result{
		Snapshot: snap,
		Report:   rep,
		Events:   events,
		Log:      append(log, events...),
		Skipped:  skipped,
		RunAt:    scanTime,
	}

	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()
	return res, nil
}

// loadPrior fetches the persisted snapshot and change log, applying the
// corruption-recovery policy: an unreadable record is treated as absent
// after resetting the store. The third return reports whether saving is
// still safe.
func (s *Service) loadPrior() (*models.Snapshot, []models.ChangeEvent, bool) {
	if s.st == nil {
		return nil, nil, false
	}
	prior, log, err := s.st.Load()
	if err == nil {
		return prior, log, true
	}
	if errors.Is(err, apperr.ErrCorruptState) {
		s.logger.Warn("audit: prior state unreadable, starting fresh", slog.String("error", err.Error()))
		if resetErr := s.st.Reset(); resetErr != nil {
			s.logger.Error("audit: state reset failed, persistence disabled for this run", slog.String("error", resetErr.Error()))
			return nil, nil, false
		}
		return nil, nil, true
	}
	s.logger.Warn("audit: state load failed, proceeding without prior", slog.String("error", err.Error()))
	return nil, nil, false
}

// Latest returns the most recent result, or nil before the first run.
func (s *Service) Latest() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// History returns the full change log without running an audit: the latest
// in-memory result if present, otherwise the persisted log.
func (s *Service) History() ([]models.ChangeEvent, error) {
	if res := s.Latest(); res != nil {
		return res.Log, nil
	}
	if s.st == nil {
		return nil, nil
	}
	_, log, err := s.st.Load()
	if err != nil {
		if errors.Is(err, apperr.ErrCorruptState) {
			return nil, nil
		}
		return nil, err
	}
	return log, nil
}
