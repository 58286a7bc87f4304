package state

import "github.com/starford/ansuz/internal/models"

// Store is the persistence boundary for the snapshot and change log.
// Consumers should depend on this interface rather than the concrete *DB
// type so tests can substitute an in-memory store.
type Store interface {
	// Load returns the prior snapshot and the full historical change log.
	// (nil, nil, nil) means no prior state exists. An error wrapping
	// apperr.ErrCorruptState means the record is unreadable and the
	// caller should proceed as if no prior state existed.
	Load() (*models.Snapshot, []models.ChangeEvent, error)
	// Save persists the snapshot and appends the run's new events,
	// all-or-nothing.
	Save(snap *models.Snapshot, events []models.ChangeEvent) error
	// Reset discards all persisted state, the recovery path after a
	// corrupt Load.
	Reset() error
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// Memory is an in-process Store for tests and cache-disabled runs that
// still want run-to-run diffing within one process.
type Memory struct {
	snap *models.Snapshot
	log  []models.ChangeEvent
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() (*models.Snapshot, []models.ChangeEvent, error) {
	return m.snap, append([]models.ChangeEvent(nil), m.log...), nil
}

func (m *Memory) Save(snap *models.Snapshot, events []models.ChangeEvent) error {
	m.snap = snap
	m.log = append(m.log, events...)
	return nil
}

func (m *Memory) Reset() error {
	m.snap = nil
	m.log = nil
	return nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
