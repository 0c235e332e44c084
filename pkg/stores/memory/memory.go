// Package memory implements the trivial in-memory JSON Store: a single root
// Value, read by Get and mutated by Set.
package memory

import (
	"context"
	"sync"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

// Store holds a single root Value behind a mutex. It is the reference Store
// used by tests and the Memory mount variant.
type Store struct {
	mu   sync.Mutex
	root value.Value
}

// New returns a Store whose root is an empty Map.
func New() *Store {
	return &Store{root: value.EmptyMap()}
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
		return path.Empty, store.NewValidationFailed(p, "memory store requires a parsed value")
	}
	newRoot, err := value.Set(s.root, p, v)
	if err != nil {
		return path.Empty, store.NewTypeMismatch(p, err.Error())
	}
	s.root = newRoot
	return p, nil
}

var _ store.Store = (*Store)(nil)
