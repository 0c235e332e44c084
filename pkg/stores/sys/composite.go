package sys

import (
	"context"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

// fsStore is the narrow slice of store.Store the composite needs from the
// filesystem handle Store, avoiding an import cycle between sys and
// fshandle (mount wires the concrete *fshandle.Store in at construction).
type fsStore interface {
	Read(ctx context.Context, p path.Path) (*value.Record, error)
	Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error)
}

// Store is the System-primitives overlay created by the Sys mount variant:
// a fixed composition of time, env, random, process, and (optionally) a
// filesystem handle store, dispatched by first path component since none of
// them need dynamic mount/unmount.
type Store struct {
	time    *TimeStore
	env     *EnvStore
	random  *RandomStore
	process *ProcessStore
	fs      fsStore
}

// New returns the fixed Sys composition with no filesystem access.
func New() *Store {
	return &Store{
		time:    NewTimeStore(),
		env:     NewEnvStore(),
		random:  NewRandomStore(),
		process: NewProcessStore(),
	}
}

// NewWithFS returns the Sys composition with fs wired in at "fs", per the
// reference composition's ctx/sys/fs convention.
func NewWithFS(fs fsStore) *Store {
	s := New()
	s.fs = fs
	return s
}

func (s *Store) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	switch p.At(0) {
	case "now", "monotonic", "zone":
		return s.time.Read(ctx, p)
	case "env":
		return s.env.Read(ctx, p)
	case "uuid", "int", "bytes":
		return s.random.Read(ctx, p)
	case "pid", "argv", "cwd":
		return s.process.Read(ctx, p)
	case "fs":
		if s.fs == nil {
			return nil, nil
		}
		return s.fs.Read(ctx, p.Slice(1, p.Len()))
	default:
		return nil, nil
	}
}

func (s *Store) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	if p.Len() > 0 && p.At(0) == "fs" && s.fs != nil {
		leafPath, err := s.fs.Write(ctx, p.Slice(1, p.Len()), rec)
		if err != nil {
			return path.Empty, err
		}
		prefix, _ := path.New("fs")
		return prefix.Join(leafPath), nil
	}
	return path.Empty, store.NewNotWritable(p)
}

var _ store.Store = (*Store)(nil)
