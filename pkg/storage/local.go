package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage keeps uploads under root/<owner>/<uuid>_<name>.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates the root directory if needed.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) SaveUpload(_ context.Context, owner, filename string, data []byte) (*FileInfo, error) {
	dir := filepath.Join(s.root, sanitizePathPart(owner))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create owner dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizePathPart(filename))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	return &FileInfo{
		Path:    path,
		Name:    filename,
		Size:    int64(len(data)),
		SavedAt: time.Now().UTC(),
	}, nil
}

func (s *LocalStorage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	if !s.contains(path) {
		return nil, fmt.Errorf("path %q outside storage root", path)
	}
	return os.Open(path)
}

func (s *LocalStorage) Delete(_ context.Context, path string) error {
	if !s.contains(path) {
		return fmt.Errorf("path %q outside storage root", path)
	}
	return os.Remove(path)
}

// PruneOlderThan removes archived uploads whose modification time is before
// cutoff and returns how many files were deleted. Empty owner directories
// are left in place.
func (s *LocalStorage) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove %s: %w", path, err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("prune uploads: %w", err)
	}
	return removed, nil
}

func (s *LocalStorage) contains(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// sanitizePathPart strips path separators and parent references from
// user-controlled names.
func sanitizePathPart(part string) string {
	part = filepath.Base(part)
	part = strings.ReplaceAll(part, "..", "")
	if part == "" || part == "." || part == string(filepath.Separator) {
		return "upload"
	}
	return part
}
