// Package help implements the doc aggregator Store: an index materialized
// from the live set of redirects under the help prefix, rebuilt whenever the
// MountStore notifies it of a mount or unmount.
package help

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

// Manifest describes one discovered topic.
type Manifest struct {
	Title       string
	Description string
	Children    []string
	Keywords    []string
}

// RedirectEntry mirrors one redirect whose From is under the help prefix, as
// exposed by the meta and meta/<topic> endpoints.
type RedirectEntry struct {
	From string
	To   string
	Mode string
}

// Store holds a DocsIndex keyed by topic name, rebuilt wholesale on every
// Rebuild call. It never mutates the Overlay itself: the MountStore owns
// installing/removing the redirects this Store merely reports on.
type Store struct {
	mu      sync.RWMutex
	docs    map[string]Manifest
	entries map[string]RedirectEntry
}

// New returns an empty help Store.
func New() *Store {
	return &Store{docs: make(map[string]Manifest), entries: make(map[string]RedirectEntry)}
}

// Rebuild replaces the index wholesale from the current redirect set. The
// MountStore calls this after every mount/unmount so the index always
// reflects live redirects, per the "purely an aggregator" contract.
func (s *Store) Rebuild(entries []RedirectEntry, manifests map[string]Manifest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]RedirectEntry, len(entries))
	for _, e := range entries {
		s.entries[e.From] = e
	}
	s.docs = manifests
}

func (s *Store) Read(_ context.Context, p path.Path) (*value.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p.IsEmpty() {
		names := make([]string, 0, len(s.docs))
		for name := range s.docs {
			names = append(names, name)
		}
		sort.Strings(names)
		items := make([]value.Value, len(names))
		for i, n := range names {
			items[i] = value.String(n)
		}
		rec := value.NewParsed(value.Array(items...))
		return &rec, nil
	}

	if p.At(0) == "meta" {
		if p.Len() == 1 {
			return s.readAllMeta()
		}
		if p.Len() == 2 {
			return s.readOneMeta(p.At(1))
		}
		return nil, nil
	}

	if p.At(0) == "search" && p.Len() == 2 {
		return s.search(p.At(1))
	}

	return nil, nil
}

func (s *Store) readAllMeta() (*value.Record, error) {
	froms := make([]string, 0, len(s.entries))
	for from := range s.entries {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	items := make([]value.Value, len(froms))
	for i, from := range froms {
		items[i] = redirectEntryToValue(s.entries[from])
	}
	rec := value.NewParsed(value.Array(items...))
	return &rec, nil
}

func (s *Store) readOneMeta(topic string) (*value.Record, error) {
	for from, e := range s.entries {
		if strings.HasSuffix(from, "/"+topic) || from == topic {
			rec := value.NewParsed(redirectEntryToValue(e))
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *Store) search(query string) (*value.Record, error) {
	q := strings.ToLower(query)
	var results []value.Value
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := s.docs[name]
		if matches(q, name, m) {
			var to string
			for from, e := range s.entries {
				if strings.HasSuffix(from, "/"+name) || from == name {
					to = e.To
					break
				}
			}
			results = append(results, value.Map(map[string]value.Value{
				"topic": value.String(name),
				"title": value.String(m.Title),
				"path":  value.String(to),
			}))
		}
	}
	rec := value.NewParsed(value.Map(map[string]value.Value{
		"query":   value.String(query),
		"count":   value.Integer(int64(len(results))),
		"results": value.Array(results...),
	}))
	return &rec, nil
}

func matches(q, name string, m Manifest) bool {
	if strings.Contains(strings.ToLower(name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Description), q) {
		return true
	}
	for _, kw := range m.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}

func redirectEntryToValue(e RedirectEntry) value.Value {
	return value.Map(map[string]value.Value{
		"from": value.String(e.From),
		"to":   value.String(e.To),
		"mode": value.String(e.Mode),
	})
}

func (s *Store) Write(_ context.Context, p path.Path, _ value.Record) (path.Path, error) {
	return path.Empty, store.NewNotWritable(p)
}

var _ store.Store = (*Store)(nil)
