// Package storage defines the library file-system abstraction.
package storage

import "time"

// DocMetadata describes one document-like file found in the library.
type DocMetadata struct {
	Path         string    // library-relative, slash separated
	LastModified time.Time // mtime at listing time
}

// Provider is the interface for library file access. The auditor only ever
// reads; Write exists on the concrete FS type for callers that manage
// fixture or state files.
type Provider interface {
	// List returns metadata for every document file under the library
	// root whose name carries one of the recognized extensions, in
	// stable lexical walk order.
	List() ([]DocMetadata, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
}
