// Package sys implements the read-only OS-primitives Stores: time, env,
// random, and process identity. The Sys mount variant combines them in one
// Store (composite.go) that dispatches on the first path component.
package sys

import (
	"context"
	"crypto/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

// TimeStore exposes wall-clock and monotonic time as read-only leaves.
type TimeStore struct {
	// start anchors the monotonic clock so repeated reads within a process
	// lifetime return increasing, comparable nanosecond counts.
	start time.Time
}

func NewTimeStore() *TimeStore {
	return &TimeStore{start: time.Now()}
}

func (t *TimeStore) Read(_ context.Context, p path.Path) (*value.Record, error) {
	if p.Len() != 1 {
		return nil, nil
	}
	switch p.At(0) {
	case "now":
		rec := value.NewParsed(value.String(time.Now().UTC().Format(time.RFC3339Nano)))
		return &rec, nil
	case "monotonic":
		rec := value.NewParsed(value.Integer(int64(time.Since(t.start))))
		return &rec, nil
	case "zone":
		name, _ := time.Now().Zone()
		rec := value.NewParsed(value.String(name))
		return &rec, nil
	default:
		return nil, nil
	}
}

func (t *TimeStore) Write(_ context.Context, p path.Path, _ value.Record) (path.Path, error) {
	return path.Empty, store.NewNotWritable(p)
}

// EnvStore exposes process environment variables as read-only leaves under
// env/<VAR>.
type EnvStore struct{}

func NewEnvStore() *EnvStore { return &EnvStore{} }

func (e *EnvStore) Read(_ context.Context, p path.Path) (*value.Record, error) {
	if p.Len() != 2 || p.At(0) != "env" {
		return nil, nil
	}
	v, ok := os.LookupEnv(p.At(1))
	if !ok {
		return nil, nil
	}
	rec := value.NewParsed(value.String(v))
	return &rec, nil
}

func (e *EnvStore) Write(_ context.Context, p path.Path, _ value.Record) (path.Path, error) {
	return path.Empty, store.NewNotWritable(p)
}

// RandomStore exposes fresh-per-read randomness: uuid, int, bytes/<n>.
type RandomStore struct{}

func NewRandomStore() *RandomStore { return &RandomStore{} }

func (r *RandomStore) Read(_ context.Context, p path.Path) (*value.Record, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	switch p.At(0) {
	case "uuid":
		if p.Len() != 1 {
			return nil, nil
		}
		rec := value.NewParsed(value.String(uuid.New().String()))
		return &rec, nil
	case "int":
		if p.Len() != 1 {
			return nil, nil
		}
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, store.NewIO(p, err)
		}
		var n int64
		for _, b := range buf {
			n = n<<8 | int64(b)
		}
		rec := value.NewParsed(value.Integer(n))
		return &rec, nil
	case "bytes":
		if p.Len() != 2 {
			return nil, nil
		}
		n, err := strconv.Atoi(p.At(1))
		if err != nil || n < 0 {
			return nil, store.NewInvalidPath(p, "bytes/<n> requires a non-negative integer n")
		}
		buf := make([]byte, n)
		if _, err := rand.Read(buf); err != nil {
			return nil, store.NewIO(p, err)
		}
		rec := value.NewParsed(value.Bytes(buf))
		return &rec, nil
	default:
		return nil, nil
	}
}

func (r *RandomStore) Write(_ context.Context, p path.Path, _ value.Record) (path.Path, error) {
	return path.Empty, store.NewNotWritable(p)
}

// ProcessStore exposes read-only process identity: pid, argv, cwd.
type ProcessStore struct{}

func NewProcessStore() *ProcessStore { return &ProcessStore{} }

func (ps *ProcessStore) Read(_ context.Context, p path.Path) (*value.Record, error) {
	if p.Len() != 1 {
		return nil, nil
	}
	switch p.At(0) {
	case "pid":
		rec := value.NewParsed(value.Integer(int64(os.Getpid())))
		return &rec, nil
	case "argv":
		items := make([]value.Value, len(os.Args))
		for i, a := range os.Args {
			items[i] = value.String(a)
		}
		rec := value.NewParsed(value.Array(items...))
		return &rec, nil
	case "cwd":
		cwd, err := os.Getwd()
		if err != nil {
			return nil, store.NewIO(p, err)
		}
		rec := value.NewParsed(value.String(cwd))
		return &rec, nil
	default:
		return nil, nil
	}
}

func (ps *ProcessStore) Write(_ context.Context, p path.Path, _ value.Record) (path.Path, error) {
	return path.Empty, store.NewNotWritable(p)
}

var (
	_ store.Store = (*TimeStore)(nil)
	_ store.Store = (*EnvStore)(nil)
	_ store.Store = (*RandomStore)(nil)
	_ store.Store = (*ProcessStore)(nil)
)
