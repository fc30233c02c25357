package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps one compressed file per tag in a directory.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileStore creates dir if needed. Files older than ttl are misses;
// ttl <= 0 disables expiry.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Path returns the file an entry with tag is stored in.
func (f *FileStore) Path(tag string) string {
	return filepath.Join(f.dir, fileName(tag))
}

func (f *FileStore) Get(_ context.Context, tag string) (*Entry, error) {
	p := f.Path(tag)
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat cache file: %w", err)
	}
	if f.ttl > 0 && f.now().Sub(info.ModTime()) > f.ttl {
		return nil, ErrMiss
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return Decode(data)
}

// Put writes the entry through a temporary file so readers never see a
// partial write.
func (f *FileStore) Put(_ context.Context, e *Entry) error {
	data, err := Encode(e)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(tmp.Name(), f.Path(e.Tag))
}

func fileName(tag string) string {
	return strings.NewReplacer(":", "-", "/", "-").Replace(tag) + ".gob.sz"
}
