// Package register implements the session register Store: a scratch space
// of named slots, scoped to a single session, used for intermediate values
// during a sequence of operations (e.g. storing a broker handle path under a
// short name).
package register

import (
	"context"
	"sort"
	"sync"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

// Store behaves as an in-memory store scoped to a single session: reading
// its root lists register names instead of returning the whole tree, since
// registers are addressed individually rather than navigated as nested data.
type Store struct {
	mu        sync.Mutex
	registers map[string]value.Value
}

// New returns an empty register Store.
func New() *Store {
	return &Store{registers: make(map[string]value.Value)}
}

func (s *Store) Read(_ context.Context, p path.Path) (*value.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.IsEmpty() {
		names := make([]string, 0, len(s.registers))
		for name := range s.registers {
			names = append(names, name)
		}
		sort.Strings(names)
		items := make([]value.Value, len(names))
		for i, name := range names {
			items[i] = value.String(name)
		}
		rec := value.NewParsed(value.Array(items...))
		return &rec, nil
	}

	root, ok := s.registers[p.At(0)]
	if !ok {
		return nil, nil
	}
	v, ok := root.Get(p.Slice(1, p.Len()))
	if !ok {
		return nil, nil
	}
	rec := value.NewParsed(v)
	return &rec, nil
}

func (s *Store) Write(_ context.Context, p path.Path, rec value.Record) (path.Path, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.IsEmpty() {
		return path.Empty, store.NewNotWritable(p)
	}
	v, ok := rec.AsValue()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "register store requires a parsed value")
	}

	name := p.At(0)
	rest := p.Slice(1, p.Len())
	root, ok := s.registers[name]
	if !ok {
		root = value.Null
	}
	newRoot, err := value.Set(root, rest, v)
	if err != nil {
		return path.Empty, store.NewTypeMismatch(p, err.Error())
	}
	s.registers[name] = newRoot
	return p, nil
}

var _ store.Store = (*Store)(nil)
