// Package testutil provides shared test helpers for setting up libraries and state stores.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/state"
	"github.com/starford/ansuz/internal/storage"
)

// Extensions is the default recognized-extension set used by test libraries.
var Extensions = []string{".md", ".markdown"}

// TestState creates a temporary SQLite state store that is automatically
// cleaned up.
func TestState(t *testing.T) *state.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ansuz-test.db")
	db, err := state.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLibrary creates a temporary library directory populated with the given
// documents and returns it with an FS provider over it. The concrete type is
// returned so tests can mutate the library through Write and Delete.
func TestLibrary(t *testing.T, docs map[string]string) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir, Extensions)
	if err != nil {
		t.Fatal(err)
	}
	for path, content := range docs {
		if err := store.Write(path, []byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	return dir, store
}
