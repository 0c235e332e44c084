// Package overlay implements OverlayStore, the routing engine that composes
// heterogeneous Stores into one tree via longest-prefix match over a
// path-component trie, with cycle-safe redirect resolution.
package overlay

import (
	"context"
	"sync"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/trie"
	"github.com/structfs/structfs/pkg/value"
)

// Store wraps a PathTrie of RouteTargets and implements store.Store itself,
// routing every Read/Write by longest-prefix match, resolving Redirect
// chains with per-call cycle detection.
//
// Store is safe for concurrent use: every operation holds mu only long
// enough to snapshot the routing decision (trie lookup) before delegating
// to the leaf Store, which may itself block or re-enter the Overlay.
type Store struct {
	mu   sync.RWMutex
	trie *trie.Trie[store.RouteTarget]
}

// New returns an empty OverlayStore.
func New() *Store {
	return &Store{trie: trie.New[store.RouteTarget]()}
}

// Mount inserts a leaf Store at path, replacing (and returning) any
// existing target there.
func (o *Store) Mount(p path.Path, s store.Store) *store.RouteTarget {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.trie.Insert(p, store.StoreTarget(s))
}

// Unmount removes the exact-path target at path, keeping any children
// routable through their own entries, and returns the removed target.
func (o *Store) Unmount(p path.Path) *store.RouteTarget {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.trie.Remove(p)
}

// UnmountSubtree detaches the whole subtree at path. The returned sub-trie
// is for inspection only, not in-place restoration.
func (o *Store) UnmountSubtree(p path.Path) *trie.Trie[store.RouteTarget] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.trie.RemoveSubtree(p)
}

// AddRedirect installs a symbolic link from -> to.
func (o *Store) AddRedirect(from, to path.Path, mode store.RedirectMode, sourceMount string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.trie.Insert(from, store.RedirectTarget(store.Redirect{To: to, Mode: mode, SourceMount: sourceMount}))
}

// RemoveRedirectsForMount removes every Redirect whose SourceMount equals
// name. Used by mount teardown for cascade removal.
func (o *Store) RemoveRedirectsForMount(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.trie.Iter() {
		if e.Value.IsRedirect() && e.Value.Redirect.SourceMount == name {
			o.trie.Remove(e.Path)
		}
	}
}

// Redirects returns every currently-installed Redirect, keyed by its From
// path, in deterministic pre-order.
func (o *Store) Redirects() []trie.Entry[store.RouteTarget] {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []trie.Entry[store.RouteTarget]
	for _, e := range o.trie.Iter() {
		if e.Value.IsRedirect() {
			out = append(out, e)
		}
	}
	return out
}

// lookup performs one find_ancestor call under the read lock.
func (o *Store) lookup(p path.Path) (store.RouteTarget, path.Path, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, suffix, ok := o.trie.FindAncestor(p)
	if !ok {
		return store.RouteTarget{}, path.Empty, false
	}
	return *v, suffix, true
}

// Read implements the read algorithm of spec.md §4.3: repeated find_ancestor
// + redirect resolution, tracking visited paths to guarantee termination on
// a cycle.
func (o *Store) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	visited := map[string]bool{p.String(): true}
	cur := p
	for {
		target, suffix, ok := o.lookup(cur)
		if !ok {
			return nil, store.NewNoRoute(cur)
		}
		if target.IsStore() {
			return target.Store.Read(ctx, suffix)
		}
		r := target.Redirect
		if r.Mode == store.WriteOnly {
			return nil, store.NewNotReadable(cur)
		}
		next := r.To.Join(suffix)
		key := next.String()
		if visited[key] {
			return nil, store.NewRedirectCycle(next)
		}
		visited[key] = true
		cur = next
	}
}

// Write implements the write algorithm of spec.md §4.3. The path returned by
// the leaf is re-qualified with the mount prefix as originally presented by
// the caller, so callers always receive fully-qualified paths regardless of
// how many redirects were traversed.
func (o *Store) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	visited := map[string]bool{p.String(): true}
	cur := p
	for {
		target, suffix, ok := o.lookup(cur)
		if !ok {
			return path.Empty, store.NewNoRoute(cur)
		}
		if target.IsStore() {
			mountPrefix := cur.Slice(0, cur.Len()-suffix.Len())
			leafPath, err := target.Store.Write(ctx, suffix, rec)
			if err != nil {
				return path.Empty, err
			}
			return mountPrefix.Join(leafPath), nil
		}
		r := target.Redirect
		if r.Mode == store.ReadOnly {
			return path.Empty, store.NewNotWritable(cur)
		}
		next := r.To.Join(suffix)
		key := next.String()
		if visited[key] {
			return path.Empty, store.NewRedirectCycle(next)
		}
		visited[key] = true
		cur = next
	}
}

var _ store.Store = (*Store)(nil)
