// Package covers provides filesystem storage for book cover images.
package covers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bookcircleapp/bookcircle-server/internal/errors"
)

// Storage manages cover image filesystem operations.
// Thread-safe for concurrent operations.
//
// Covers are stored under {basePath}/covers/users/{ownerID}/{uuid}.{ext}
// and addressed by an opaque reference relative to the covers root. Only
// the book record knows its reference; callers never construct paths.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance rooted at {basePath}/covers.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	storagePath := filepath.Join(basePath, "covers")

	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}

	return &Storage{
		basePath: storagePath,
	}, nil
}

// Save stores cover bytes for an owner and returns the opaque reference to
// record on the book. The original filename only contributes its extension.
// I/O failures come back as storage errors with nothing persisted.
func (s *Storage) Save(data []byte, ownerID, filename string) (string, error) {
	if ownerID == "" {
		return "", errors.Validation("owner ID cannot be empty")
	}
	if len(data) == 0 {
		return "", errors.Validation("cover data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userDir := filepath.Join(s.basePath, "users", ownerID)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return "", errors.Storagef("failed to create cover directory for user %s", ownerID).WithCause(err)
	}

	name := uuid.NewString()
	if ext := fileExtension(filename); ext != "" {
		name += "." + ext
	}

	ref := filepath.ToSlash(filepath.Join("users", ownerID, name))

	if err := os.WriteFile(filepath.Join(s.basePath, "users", ownerID, name), data, 0644); err != nil {
		return "", errors.Storagef("failed to write cover for user %s", ownerID).WithCause(err)
	}

	return ref, nil
}

// Get retrieves cover bytes by reference.
func (s *Storage) Get(ref string) ([]byte, error) {
	if ref == "" {
		return nil, errors.Validation("cover reference cannot be empty")
	}
	if !validRef(ref) {
		return nil, errors.Validationf("invalid cover reference %q", ref)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.basePath, filepath.FromSlash(ref)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("cover %s not found", ref)
		}
		return nil, errors.Storagef("failed to read cover %s", ref).WithCause(err)
	}

	return data, nil
}

// Exists checks whether a cover exists for the reference.
func (s *Storage) Exists(ref string) bool {
	if ref == "" || !validRef(ref) {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(filepath.Join(s.basePath, filepath.FromSlash(ref)))
	return err == nil
}

// validRef rejects references that would escape the covers root.
func validRef(ref string) bool {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(ref)))
	if strings.HasPrefix(clean, "../") || clean == ".." || filepath.IsAbs(clean) {
		return false
	}
	return strings.HasPrefix(clean, "users/")
}

// fileExtension returns the lowercase extension of a filename, without the
// dot, or empty when the name has none.
func fileExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strings.TrimPrefix(ext, ".")
}
