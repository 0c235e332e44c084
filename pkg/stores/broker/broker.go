// Package broker implements the HTTP broker Store: the deferred-execution
// handle pattern, where a write queues a request and returns a handle path,
// and the first read against that handle executes it exactly once and
// caches the result for every subsequent read.
package broker

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

// Request is the deserialized shape of a queued HTTP request.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    value.Value
}

// Response is the deserialized shape of a completed HTTP request.
type Response struct {
	Status     int
	StatusText string
	Headers    map[string]string
	Body       value.Value
	BodyText   *string
}

// Executor is the transport capability the broker consumes. Tests inject a
// mock; production wiring uses httpExecutor (http_executor.go).
type Executor interface {
	Execute(ctx context.Context, req Request) (Response, error)
}

type handle struct {
	request  Request
	response *Response
	err      string
	executed bool
	done     chan struct{} // non-nil once execution has started; closed when it finishes
}

// Store is the outstanding-handle table for one mount of the HttpBroker
// variant.
type Store struct {
	mu       sync.Mutex
	executor Executor
	nextID   uint64
	handles  map[uint64]*handle
}

// New returns an empty broker Store driven by executor.
func New(executor Executor) *Store {
	return &Store{executor: executor, handles: make(map[uint64]*handle)}
}

const outstandingPrefix = "outstanding"

func (s *Store) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	if p.At(0) != outstandingPrefix {
		return nil, nil
	}
	if p.Len() == 1 {
		return s.listOutstanding()
	}

	id, err := strconv.ParseUint(p.At(1), 10, 64)
	if err != nil {
		return nil, store.NewInvalidPath(p, "outstanding/<id> requires a numeric id")
	}

	switch {
	case p.Len() == 2:
		return s.readOutstanding(ctx, p, id)
	case p.Len() == 3 && p.At(2) == "request":
		return s.readRequest(p, id)
	case p.Len() >= 3 && p.At(2) == "response":
		return s.readResponse(ctx, p, id)
	default:
		return nil, nil
	}
}

func (s *Store) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	if p.IsEmpty() {
		return s.queue(p, rec)
	}
	if p.Len() == 2 && p.At(0) == outstandingPrefix {
		return s.deleteHandle(p, rec)
	}
	return path.Empty, store.NewNotWritable(p)
}

func (s *Store) queue(p path.Path, rec value.Record) (path.Path, error) {
	v, ok := rec.AsValue()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "broker request must be a parsed value")
	}
	req, err := parseRequest(p, v)
	if err != nil {
		return path.Empty, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.handles[id] = &handle{request: req}

	return path.Parse(fmt.Sprintf("%s/%d", outstandingPrefix, id))
}

func (s *Store) listOutstanding() (*value.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint64, 0, len(s.handles))
	for id := range s.handles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	items := make([]value.Value, len(ids))
	for i, id := range ids {
		items[i] = value.String(strconv.FormatUint(id, 10))
	}
	rec := value.NewParsed(value.Array(items...))
	return &rec, nil
}

func (s *Store) readRequest(p path.Path, id uint64) (*value.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[id]
	if !ok {
		return nil, store.NewNotFound(p)
	}
	rec := value.NewParsed(requestToValue(h.request))
	return &rec, nil
}

// readOutstanding executes the request on first access and memoizes the
// result, so repeated reads are idempotent and the transport runs at most
// once per handle.
func (s *Store) readOutstanding(ctx context.Context, p path.Path, id uint64) (*value.Record, error) {
	resp, execErr, err := s.ensureExecuted(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if execErr != "" {
		return nil, store.NewStore("http_broker", "execute", fmt.Errorf("%s", execErr))
	}
	rec := value.NewParsed(responseToValue(*resp))
	return &rec, nil
}

func (s *Store) readResponse(ctx context.Context, p path.Path, id uint64) (*value.Record, error) {
	resp, execErr, err := s.ensureExecuted(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if execErr != "" {
		return nil, store.NewStore("http_broker", "execute", fmt.Errorf("%s", execErr))
	}
	v, ok := responseToValue(*resp).Get(p.Slice(3, p.Len()))
	if !ok {
		return nil, nil
	}
	rec := value.NewParsed(v)
	return &rec, nil
}

// ensureExecuted invokes the transport at most once per handle, caching the
// result (or error) under the handle for every subsequent call.
func (s *Store) ensureExecuted(ctx context.Context, p path.Path, id uint64) (*Response, string, error) {
	s.mu.Lock()
	h, ok := s.handles[id]
	if !ok {
		s.mu.Unlock()
		return nil, "", store.NewNotFound(p)
	}
	if h.executed {
		resp, execErr := h.response, h.err
		s.mu.Unlock()
		return resp, execErr, nil
	}
	if h.done != nil {
		// Another read is already executing this handle; wait for its result.
		done := h.done
		s.mu.Unlock()
		<-done
		s.mu.Lock()
		defer s.mu.Unlock()
		return h.response, h.err, nil
	}
	h.done = make(chan struct{})
	req := h.request
	s.mu.Unlock()

	resp, err := s.executor.Execute(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	h.executed = true
	if err != nil {
		h.err = err.Error()
	} else {
		h.response = &resp
	}
	close(h.done)
	if _, ok := s.handles[id]; !ok {
		return nil, "", store.NewNotFound(p)
	}
	return h.response, h.err, nil
}

func (s *Store) deleteHandle(p path.Path, rec value.Record) (path.Path, error) {
	v, ok := rec.AsValue()
	if !ok || !v.IsNull() {
		return path.Empty, store.NewValidationFailed(p, "outstanding/<id> only accepts null (delete)")
	}

	id, err := strconv.ParseUint(p.At(1), 10, 64)
	if err != nil {
		return path.Empty, store.NewInvalidPath(p, "outstanding/<id> requires a numeric id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[id]; !ok {
		return path.Empty, store.NewNotFound(p)
	}
	delete(s.handles, id)
	return p, nil
}

var _ store.Store = (*Store)(nil)
