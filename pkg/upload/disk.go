package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vango-dev/mirror/internal/ids"
)

// DiskStore stores uploads on the local filesystem.
type DiskStore struct {
	dir     string
	maxSize int64

	mu    sync.RWMutex
	files map[string]*diskMeta
}

type diskMeta struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

var _ Store = (*DiskStore)(nil)

// NewDiskStore creates a store in dir, creating the directory if needed.
// maxSize limits each file (0 = no limit).
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{
		dir:     dir,
		maxSize: maxSize,
		files:   make(map[string]*diskMeta),
	}, nil
}

// Dir returns the storage directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save implements Store.
func (s *DiskStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := ids.Random(16)
	path := s.path(id)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = r
	if s.maxSize > 0 {
		reader = io.LimitReader(r, s.maxSize+1) // +1 to detect overflow
	}
	written, err := io.Copy(f, reader)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	if s.maxSize > 0 && written > s.maxSize {
		os.Remove(path)
		return nil, ErrTooLarge
	}

	meta := &diskMeta{
		Filename:    filename,
		ContentType: contentType,
		Size:        written,
		CreatedAt:   time.Now(),
	}
	s.mu.Lock()
	s.files[id] = meta
	s.mu.Unlock()

	// The sidecar lets another process (or a restarted one) find the
	// original name.
	if err := s.saveMeta(id, meta); err != nil {
		os.Remove(path)
		return nil, err
	}

	return &File{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Size:        written,
		Path:        path,
		CreatedAt:   meta.CreatedAt,
	}, nil
}

// Stat describes a stored file.
func (s *DiskStore) Stat(id string) (*File, error) {
	s.mu.RLock()
	meta, ok := s.files[id]
	s.mu.RUnlock()
	if !ok {
		var err error
		if meta, err = s.loadMeta(id); err != nil {
			return nil, ErrNotFound
		}
	}
	path := s.path(id)
	if _, err := os.Stat(path); err != nil {
		return nil, ErrNotFound
	}
	return &File{
		ID:          id,
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		Size:        meta.Size,
		Path:        path,
		CreatedAt:   meta.CreatedAt,
	}, nil
}

// Open implements Store.
func (s *DiskStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	f, err := os.Open(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Remove implements Store.
func (s *DiskStore) Remove(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	s.mu.Lock()
	delete(s.files, id)
	s.mu.Unlock()

	err := os.Remove(s.path(id))
	os.Remove(s.metaPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// Cleanup implements Store.
func (s *DiskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, meta := range s.files {
		if meta.CreatedAt.Before(cutoff) {
			delete(s.files, id)
			os.Remove(s.path(id))
			os.Remove(s.metaPath(id))
		}
	}

	// Also scan the directory for files left by earlier processes.
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(s.dir, entry.Name()))
		}
	}
	return nil
}

func (s *DiskStore) path(id string) string {
	return filepath.Join(s.dir, id)
}

func (s *DiskStore) metaPath(id string) string {
	return filepath.Join(s.dir, id+".meta")
}

func (s *DiskStore) saveMeta(id string, meta *diskMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(id), data, 0644)
}

func (s *DiskStore) loadMeta(id string) (*diskMeta, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		return nil, err
	}
	var meta diskMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// validID rejects ids that could escape the storage directory.
func validID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
