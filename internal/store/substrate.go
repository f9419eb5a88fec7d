package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"posterlab/internal/domain"
)

// Substrate is the key-value layer the store persists into. Implementations
// must return domain.ErrQuotaExceeded from Set when a write would push total
// stored bytes past their capacity.
type Substrate interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
	Delete(key string) error
}

// FileSubstrate keeps one JSON document per logical record under a data
// directory. It is intended for development and single-user deployments
// where a database is not available.
type FileSubstrate struct {
	mu       sync.Mutex
	basePath string
	quota    int64
}

// NewFileSubstrate initializes a FileSubstrate rooted at basePath. A quota
// of zero or less disables the capacity check.
func NewFileSubstrate(basePath string, quota int64) (*FileSubstrate, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("store: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &FileSubstrate{basePath: basePath, quota: quota}, nil
}

// Get reads the record stored under key, reporting absence without error.
func (s *FileSubstrate) Get(key string) ([]byte, bool, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: read record: %w", err)
	}
	return data, true, nil
}

// Set writes the record, enforcing the byte quota across all records.
func (s *FileSubstrate) Set(key string, data []byte) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 {
		used, err := s.usedBytesExcept(filepath.Base(path))
		if err == nil && used+int64(len(data)) > s.quota {
			return domain.ErrQuotaExceeded
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store: write record: %w", err)
	}
	return nil
}

// Delete removes the record if present.
func (s *FileSubstrate) Delete(key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: delete record: %w", err)
	}
	return nil
}

func (s *FileSubstrate) usedBytesExcept(name string) (int64, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() || e.Name() == name {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// pathFor normalizes a key into a file path and prevents escaping the root.
func (s *FileSubstrate) pathFor(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("store: key is required")
	}
	cleaned := filepath.Clean(strings.TrimLeft(key, "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || strings.ContainsAny(cleaned, `/\`) {
		return "", errors.New("store: invalid key")
	}
	return filepath.Join(s.basePath, cleaned+".json"), nil
}
