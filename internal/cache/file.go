package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytsync/internal/shared"
)

// FileStore keeps every entry in one JSON object on disk.
//
// The file is loaded once when the store is opened and rewritten in full after every Put.
type FileStore struct {
	path    string
	entries map[string]json.RawMessage
}

// OpenFileStore loads path if it exists. A missing file is an empty store.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, entries: make(map[string]json.RawMessage)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrCacheIO, path, err)
	case len(data) == 0:
		return s, nil
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("%w: %s is not a cache document: %v", shared.ErrCacheIO, path, err)
	}
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("%w: entry %q is not valid JSON", shared.ErrCacheIO, key)
	}
	s.entries[key] = append(json.RawMessage(nil), value...)
	return s.flush()
}

// Clear removes the file from disk.
func (s *FileStore) Clear(context.Context) error {
	clear(s.entries)
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to delete %s: %v", shared.ErrCacheIO, s.path, err)
	}
	return nil
}

func (s *FileStore) Len(context.Context) (int, error) {
	return len(s.entries), nil
}

// flush writes the document to a sibling temp file and renames it over the original.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %v", shared.ErrCacheIO, s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", shared.ErrCacheIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrCacheIO, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCacheIO, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: failed to replace %s: %v", shared.ErrCacheIO, s.path, err)
	}
	return nil
}
