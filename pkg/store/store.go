// Package store defines the Store contract every StructFS resource
// implements, and the error taxonomy shared across the whole module.
//
// Errors carry a small Kind enum plus a message and the offending Path,
// rather than one error type per failure mode, so callers can switch on
// Kind uniformly regardless of which Store produced the error.
package store

import (
	"context"
	"fmt"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/value"
)

// Store is the capability every addressable resource in StructFS
// implements: synchronous, exclusive-reference read and write over Paths.
//
// read returns (Some(record), nil) when the path resolves, (None, nil) when
// the path is well-formed and within the Store's namespace but absent, and
// (_, err) on error. write returns the path at which the write took effect,
// which may differ from the input path (e.g. handle-generating writes).
//
// A Store may be read-only (Write always fails with KindNotWritable) or
// write-only (Read always fails with KindNotReadable). Both operations take
// an exclusive reference: several Stores mutate on Read (broker caches, file
// position), so there is deliberately no separate immutable-reader variant.
type Store interface {
	Read(ctx context.Context, p path.Path) (*value.Record, error)
	Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error)
}

// Kind categorizes an Error, matching spec.md §7's error taxonomy.
type Kind int

const (
	KindInvalidPath Kind = iota
	KindNoRoute
	KindNotFound
	KindNotReadable
	KindNotWritable
	KindTypeMismatch
	KindValidationFailed
	KindRedirectCycle
	KindUnsupportedFormat
	KindCodec
	KindIO
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "InvalidPath"
	case KindNoRoute:
		return "NoRoute"
	case KindNotFound:
		return "NotFound"
	case KindNotReadable:
		return "NotReadable"
	case KindNotWritable:
		return "NotWritable"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindValidationFailed:
		return "ValidationFailed"
	case KindRedirectCycle:
		return "RedirectCycle"
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindCodec:
		return "Codec"
	case KindIO:
		return "Io"
	case KindStore:
		return "Store"
	default:
		return "Unknown"
	}
}

// Error is the single error type used across the core. StoreName and
// Operation are populated by the KindStore variant (spec.md §7's
// Store{store_name, operation, message}); other kinds leave them empty.
type Error struct {
	Kind      Kind
	Message   string
	Path      path.Path
	StoreName string
	Operation string
	Err       error // wrapped cause, if any (Io, Codec)
}

func (e *Error) Error() string {
	if e.Kind == KindStore && e.StoreName != "" {
		return fmt.Sprintf("%s: store %q operation %q: %s", e.Kind, e.StoreName, e.Operation, e.Message)
	}
	if !e.Path.IsEmpty() {
		return fmt.Sprintf("%s: %s (path %q)", e.Kind, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes Error compatible with errors.Is against another *Error,
// comparing only Kind — the common case for callers that want "was this a
// NotFound" without caring about the message/path.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Constructors for each kind, matching how the error is raised throughout
// the module.

func NewInvalidPath(p path.Path, reason string) *Error {
	return &Error{Kind: KindInvalidPath, Message: reason, Path: p}
}

func NewNoRoute(p path.Path) *Error {
	return &Error{Kind: KindNoRoute, Message: "no route covers this path", Path: p}
}

func NewNotFound(p path.Path) *Error {
	return &Error{Kind: KindNotFound, Message: "path not found", Path: p}
}

func NewNotReadable(p path.Path) *Error {
	return &Error{Kind: KindNotReadable, Message: "path is not readable", Path: p}
}

func NewNotWritable(p path.Path) *Error {
	return &Error{Kind: KindNotWritable, Message: "path is not writable", Path: p}
}

func NewTypeMismatch(p path.Path, reason string) *Error {
	return &Error{Kind: KindTypeMismatch, Message: reason, Path: p}
}

func NewValidationFailed(p path.Path, reason string) *Error {
	return &Error{Kind: KindValidationFailed, Message: reason, Path: p}
}

func NewRedirectCycle(p path.Path) *Error {
	return &Error{Kind: KindRedirectCycle, Message: "redirect chain revisited a path", Path: p}
}

func NewUnsupportedFormat(p path.Path, format value.Format) *Error {
	return &Error{Kind: KindUnsupportedFormat, Message: fmt.Sprintf("unsupported format %q", format), Path: p}
}

func NewCodec(p path.Path, cause error) *Error {
	return &Error{Kind: KindCodec, Message: cause.Error(), Path: p, Err: cause}
}

func NewIO(p path.Path, cause error) *Error {
	return &Error{Kind: KindIO, Message: cause.Error(), Path: p, Err: cause}
}

func NewStore(storeName, operation string, cause error) *Error {
	return &Error{Kind: KindStore, StoreName: storeName, Operation: operation, Message: cause.Error(), Err: cause}
}
