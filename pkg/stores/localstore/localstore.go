// Package localstore implements the Local mount variant: a Store whose
// root Value is persisted as a single JSON file on disk, read into memory
// on construction and rewritten in full on every Write.
package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

// Store holds a single root Value behind a mutex, backed by a JSON file at
// file. It does not shard its tree across multiple files; the spec leaves
// the on-disk layout unspecified beyond "a tree of JSON files," and one
// file per mount is the simplest layout that satisfies that contract.
type Store struct {
	mu   sync.Mutex
	file string
	root value.Value
}

// New loads root from file if it exists, or starts with an empty Map.
func New(file string) (*Store, error) {
	s := &Store{file: file, root: value.EmptyMap()}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("localstore: reading %s: %w", file, err)
	}

	v, err := (value.JSONCodec{}).Decode(data, value.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("localstore: decoding %s: %w", file, err)
	}
	s.root = v
	return s, nil
}

func (s *Store) Read(_ context.Context, p path.Path) (*value.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.root.Get(p)
	if !ok {
		return nil, nil
	}
	rec := value.NewParsed(v)
	return &rec, nil
}

func (s *Store) Write(_ context.Context, p path.Path, rec value.Record) (path.Path, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := rec.AsValue()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "local store requires a parsed value")
	}
	newRoot, err := value.Set(s.root, p, v)
	if err != nil {
		return path.Empty, store.NewTypeMismatch(p, err.Error())
	}

	if err := s.persist(newRoot); err != nil {
		return path.Empty, fmt.Errorf("localstore: %w", err)
	}
	s.root = newRoot
	return p, nil
}

func (s *Store) persist(root value.Value) error {
	data, err := (value.JSONCodec{}).Encode(root, value.FormatJSON)
	if err != nil {
		return fmt.Errorf("encoding root: %w", err)
	}
	if dir := filepath.Dir(s.file); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	tmp := s.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.file); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmp, s.file, err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)
