// Package value implements StructFS's semantic data model: Value, the tree
// every Store ultimately speaks in, and Record, the maybe-parsed wrapper
// that lets routes forward bytes without paying a parse cost they never
// need.
package value

import (
	"fmt"
	"math"
	"sort"

	"github.com/structfs/structfs/pkg/path"
)

// Kind identifies a Value variant.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindBytes
	KindArray
	KindMap
)

// Value is the sum-type data tree shared by every Store. The zero Value is
// Null.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	float   float64
	str     string
	bytes   []byte
	array   []Value
	m       map[string]Value
}

// Null is the canonical null Value.
var Null = Value{kind: KindNull}

func Bool(b bool) Value       { return Value{kind: KindBool, boolean: b} }
func Integer(i int64) Value   { return Value{kind: KindInteger, integer: i} }
func Float(f float64) Value   { return Value{kind: KindFloat, float: f} }
func String(s string) Value   { return Value{kind: KindString, str: s} }
func Bytes(b []byte) Value    { return Value{kind: KindBytes, bytes: append([]byte(nil), b...)} }
func Array(vs ...Value) Value { return Value{kind: KindArray, array: append([]Value(nil), vs...)} }

// Map builds a Map Value from a plain Go map. The input map is copied.
func Map(m map[string]Value) Value {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return Value{kind: KindMap, m: out}
}

// EmptyMap returns a fresh, empty Map Value.
func EmptyMap() Value { return Map(nil) }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)       { return v.boolean, v.kind == KindBool }
func (v Value) AsInteger() (int64, bool)   { return v.integer, v.kind == KindInteger }
func (v Value) AsFloat() (float64, bool)   { return v.float, v.kind == KindFloat }
func (v Value) AsString() (string, bool)   { return v.str, v.kind == KindString }
func (v Value) AsBytes() ([]byte, bool)    { return v.bytes, v.kind == KindBytes }
func (v Value) AsArray() ([]Value, bool)   { return v.array, v.kind == KindArray }

// AsMap returns the underlying map. The returned map must not be mutated by
// callers; use Set to produce modified copies.
func (v Value) AsMap() (map[string]Value, bool) { return v.m, v.kind == KindMap }

// MapKeys returns the Map's keys in sorted order (StructFS's canonical,
// deterministic Map iteration order).
func (v Value) MapKeys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get navigates the tree by path, descending into Maps by key and into
// Arrays by integer-parsed component. Returns (value, true) on success,
// (Null, false) if the path is absent.
func (v Value) Get(p path.Path) (Value, bool) {
	cur := v
	for i := 0; i < p.Len(); i++ {
		c := p.At(i)
		switch cur.kind {
		case KindMap:
			next, ok := cur.m[c]
			if !ok {
				return Null, false
			}
			cur = next
		case KindArray:
			idx, ok := path.AsIndex(c)
			if !ok || idx < 0 || idx >= len(cur.array) {
				return Null, false
			}
			cur = cur.array[idx]
		default:
			return Null, false
		}
	}
	return cur, true
}

// Set returns a copy of v with the value at p replaced by newVal, creating
// intermediate Maps as needed. It fails if descent is blocked by an
// existing non-Map, non-Array node.
func Set(v Value, p path.Path, newVal Value) (Value, error) {
	if p.IsEmpty() {
		return newVal, nil
	}
	head := p.At(0)
	rest := p.Slice(1, p.Len())

	switch v.kind {
	case KindNull:
		// Absent intermediate nodes default to Map, creating intermediate
		// maps as needed.
		child, err := Set(Null, rest, newVal)
		if err != nil {
			return Value{}, err
		}
		return Map(map[string]Value{head: child}), nil
	case KindMap:
		existing, ok := v.m[head]
		if !ok {
			existing = Null
		}
		child, err := Set(existing, rest, newVal)
		if err != nil {
			return Value{}, err
		}
		out := make(map[string]Value, len(v.m)+1)
		for k, val := range v.m {
			out[k] = val
		}
		out[head] = child
		return Value{kind: KindMap, m: out}, nil
	case KindArray:
		idx, ok := path.AsIndex(head)
		if !ok {
			return Value{}, fmt.Errorf("set: %q is not a valid array index", head)
		}
		out := append([]Value(nil), v.array...)
		for len(out) <= idx {
			out = append(out, Null)
		}
		child, err := Set(out[idx], rest, newVal)
		if err != nil {
			return Value{}, err
		}
		out[idx] = child
		return Value{kind: KindArray, array: out}, nil
	default:
		return Value{}, fmt.Errorf("set: cannot descend through %s node at %q", v.kind, head)
	}
}

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Equal defines structural equality: Map comparison is order-insensitive,
// Array comparison is order-sensitive, and Float comparison follows IEEE 754
// semantics (NaN is never equal to anything, including itself).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindInteger:
		return a.integer == b.integer
	case KindFloat:
		if math.IsNaN(a.float) || math.IsNaN(b.float) {
			return false
		}
		return a.float == b.float
	case KindString:
		return a.str == b.str
	case KindBytes:
		if len(a.bytes) != len(b.bytes) {
			return false
		}
		for i := range a.bytes {
			if a.bytes[i] != b.bytes[i] {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.array) != len(b.array) {
			return false
		}
		for i := range a.array {
			if !Equal(a.array[i], b.array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
