package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps one directory per category and one JSON file per key.
// The file's modification time is the freshness clock. Writes go to a temp
// file first and are published with an atomic rename, so a reader never
// sees a partially written entry.
type FileStore struct {
	base string
	now  func() time.Time
}

func NewFileStore(base string) (*FileStore, error) {
	if err := os.MkdirAll(base, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{base: base, now: time.Now}, nil
}

func (s *FileStore) path(cat Category, key string) string {
	return filepath.Join(s.base, string(cat), key+".json")
}

func (s *FileStore) live(cat Category, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.now().Sub(info.ModTime()) < TTL(cat)
}

func (s *FileStore) Get(ctx context.Context, cat Category, key string) ([]byte, bool) {
	path := s.path(cat, key)
	if !s.live(cat, path) {
		return nil, false
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	// An unreadable or truncated payload is a miss, never an error.
	if !json.Valid(payload) {
		return nil, false
	}
	return payload, true
}

func (s *FileStore) Put(ctx context.Context, cat Category, key string, payload []byte) error {
	path := s.path(cat, key)
	if s.live(cat, path) {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create category dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp entry: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish entry: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
