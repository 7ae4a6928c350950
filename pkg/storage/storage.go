// Package storage archives raw upload bytes so datasets can be reprocessed
// after parser changes without asking users to re-upload.
package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo describes one archived upload.
type FileInfo struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	SavedAt time.Time `json:"savedAt"`
}

// Storage is the archival contract. The only implementation today writes to
// the local filesystem; an object-store backend can slot in behind it.
type Storage interface {
	// SaveUpload stores the raw bytes under the owner's namespace and
	// returns where they landed.
	SaveUpload(ctx context.Context, owner, filename string, data []byte) (*FileInfo, error)

	// Open streams a previously saved upload.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a saved upload.
	Delete(ctx context.Context, path string) error
}
