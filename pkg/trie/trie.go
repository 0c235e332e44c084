// Package trie implements PathTrie, the generic prefix trie StructFS's
// OverlayStore routes through.
package trie

import (
	"sort"

	"github.com/structfs/structfs/pkg/path"
)

// node is a single trie node. children is a plain map; Iter sorts keys at
// enumeration time rather than paying for an ordered map on every insert,
// since inserts vastly outnumber full-tree iterations in practice.
type node[T any] struct {
	value    *T
	children map[string]*node[T]
}

func newNode[T any]() *node[T] {
	return &node[T]{children: make(map[string]*node[T])}
}

// Trie is a generic prefix tree keyed by Path components, supporting exact
// lookup, deepest-ancestor lookup, subtree removal, and deterministic
// pre-order iteration.
type Trie[T any] struct {
	root *node[T]
}

// New returns an empty Trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{root: newNode[T]()}
}

// Insert sets the value at path, creating ancestor nodes as needed, and
// returns the prior value at that exact node, if any.
func (t *Trie[T]) Insert(p path.Path, v T) (prior *T) {
	n := t.root
	for i := 0; i < p.Len(); i++ {
		c := p.At(i)
		child, ok := n.children[c]
		if !ok {
			child = newNode[T]()
			n.children[c] = child
		}
		n = child
	}
	prior = n.value
	cp := v
	n.value = &cp
	return prior
}

// Remove clears the value at the exact path, keeping any children, and
// returns the prior value if any.
func (t *Trie[T]) Remove(p path.Path) (prior *T) {
	n := t.find(p)
	if n == nil {
		return nil
	}
	prior = n.value
	n.value = nil
	return prior
}

// RemoveSubtree detaches the entire subtree rooted at path (including its
// own value) and returns a standalone Trie containing it, or nil if the
// path does not exist.
func (t *Trie[T]) RemoveSubtree(p path.Path) *Trie[T] {
	if p.IsEmpty() {
		detached := &Trie[T]{root: t.root}
		t.root = newNode[T]()
		return detached
	}
	parent := t.find(p.Slice(0, p.Len()-1))
	if parent == nil {
		return nil
	}
	last := p.At(p.Len() - 1)
	child, ok := parent.children[last]
	if !ok {
		return nil
	}
	delete(parent.children, last)
	return &Trie[T]{root: child}
}

// Get returns the value at the exact path, or nil if absent.
func (t *Trie[T]) Get(p path.Path) *T {
	n := t.find(p)
	if n == nil {
		return nil
	}
	return n.value
}

// ContainsValue reports whether Get(p) would return a non-nil value.
func (t *Trie[T]) ContainsValue(p path.Path) bool {
	return t.Get(p) != nil
}

// FindAncestor returns the value at the deepest node along path that has a
// value set, together with the suffix of path below that node. ok is false
// if no ancestor (including the root) has a value.
func (t *Trie[T]) FindAncestor(p path.Path) (v *T, suffix path.Path, ok bool) {
	n := t.root
	bestDepth := -1
	var best *T
	if n.value != nil {
		best = n.value
		bestDepth = 0
	}
	for i := 0; i < p.Len(); i++ {
		child, exists := n.children[p.At(i)]
		if !exists {
			break
		}
		n = child
		if n.value != nil {
			best = n.value
			bestDepth = i + 1
		}
	}
	if bestDepth < 0 {
		return nil, path.Empty, false
	}
	return best, p.Slice(bestDepth, p.Len()), true
}

// Entry is a single (full path, value) pair produced by Iter.
type Entry[T any] struct {
	Path  path.Path
	Value T
}

// Iter enumerates every node holding a value in deterministic pre-order,
// with children visited in sorted component order.
func (t *Trie[T]) Iter() []Entry[T] {
	var out []Entry[T]
	var walk func(n *node[T], prefix path.Path)
	walk = func(n *node[T], prefix path.Path) {
		if n.value != nil {
			out = append(out, Entry[T]{Path: prefix, Value: *n.value})
		}
		keys := make([]string, 0, len(n.children))
		for k := range n.children {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child, err := path.New(k)
			if err != nil {
				continue
			}
			walk(n.children[k], prefix.Join(child))
		}
	}
	walk(t.root, path.Empty)
	return out
}

func (t *Trie[T]) find(p path.Path) *node[T] {
	n := t.root
	for i := 0; i < p.Len(); i++ {
		child, ok := n.children[p.At(i)]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}
