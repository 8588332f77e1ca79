// Package content reads repository files for the detectors, caching their
// bytes so manifests and sources consulted by several detectors are read
// from disk once.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultEntries is the cache capacity used by NewStore when entries <= 0.
const DefaultEntries = 1024

var (
	// ErrTooLarge is returned for files above the store's size limit.
	ErrTooLarge = errors.New("file too large to scan")
	// ErrBinary is returned for files that contain NUL bytes.
	ErrBinary = errors.New("binary file")
)

type entry struct {
	modTime time.Time
	size    int64
	data    []byte
}

// Store is a size-bounded, LRU-cached file reader. A cached entry is reused
// only while the file's size and modification time are unchanged.
type Store struct {
	cache   *lru.Cache[string, entry]
	maxSize int64
}

// NewStore creates a Store holding up to entries files of at most maxSize
// bytes each (maxSize <= 0 disables the limit).
func NewStore(entries int, maxSize int64) (*Store, error) {
	if entries <= 0 {
		entries = DefaultEntries
	}
	cache, err := lru.New[string, entry](entries)
	if err != nil {
		return nil, fmt.Errorf("content: create cache: %w", err)
	}
	return &Store{cache: cache, maxSize: maxSize}, nil
}

// Read returns the content of the file at path.
func (s *Store) Read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if s.maxSize > 0 && info.Size() > s.maxSize {
		return nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}

	if e, ok := s.cache.Get(path); ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		return e.data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(data[:min(len(data), 512)], 0) >= 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrBinary)
	}

	s.cache.Add(path, entry{modTime: info.ModTime(), size: info.Size(), data: data})
	return data, nil
}

// ReadString is Read returning a string.
func (s *Store) ReadString(path string) (string, error) {
	data, err := s.Read(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Len returns the number of cached files.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Purge drops every cached file.
func (s *Store) Purge() {
	s.cache.Purge()
}
