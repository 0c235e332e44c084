package fshandle

import (
	"context"
	"io"
	"strconv"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

func (s *Store) Read(_ context.Context, p path.Path) (*value.Record, error) {
	if p.Len() == 2 && p.At(0) == "results" {
		id, err := strconv.ParseUint(p.At(1), 10, 64)
		if err != nil {
			return nil, store.NewInvalidPath(p, "results/<id> requires a numeric id")
		}
		v, ok := s.getResult(id)
		if !ok {
			return nil, store.NewNotFound(p)
		}
		rec := value.NewParsed(v)
		return &rec, nil
	}
	if p.IsEmpty() || p.At(0) != "handles" {
		return nil, nil
	}
	if p.Len() == 1 {
		return s.readHandleList()
	}

	id, err := strconv.ParseUint(p.At(1), 10, 64)
	if err != nil {
		return nil, store.NewInvalidPath(p, "handles/<id> requires a numeric id")
	}
	h, ok := s.getHandle(id)
	if !ok {
		return nil, store.NewNotFound(p)
	}

	switch {
	case p.Len() == 2:
		return s.readFromCurrentPosition(p, h)
	case p.Len() == 4 && p.At(2) == "at":
		offset, err := strconv.ParseInt(p.At(3), 10, 64)
		if err != nil || offset < 0 {
			return nil, store.NewInvalidPath(p, "at/<offset> requires a non-negative integer")
		}
		return s.readFromOffset(p, h, offset)
	case p.Len() == 6 && p.At(2) == "at" && p.At(4) == "len":
		offset, err := strconv.ParseInt(p.At(3), 10, 64)
		if err != nil || offset < 0 {
			return nil, store.NewInvalidPath(p, "at/<offset> requires a non-negative integer")
		}
		n, err := strconv.Atoi(p.At(5))
		if err != nil || n < 0 {
			return nil, store.NewInvalidPath(p, "len/<n> requires a non-negative integer")
		}
		return s.readExactly(p, h, offset, n)
	case p.Len() == 3 && p.At(2) == "position":
		return s.readPosition(h)
	case p.Len() == 3 && p.At(2) == "meta":
		return s.readMeta(p, h)
	default:
		return nil, nil
	}
}

func (s *Store) readHandleList() (*value.Record, error) {
	ids := s.sortedHandleIDs()
	items := make([]value.Value, len(ids))
	for i, id := range ids {
		items[i] = value.String(strconv.FormatUint(id, 10))
	}
	rec := value.NewParsed(value.Array(items...))
	return &rec, nil
}

func (s *Store) readFromCurrentPosition(p path.Path, h *handle) (*value.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	data, err := readAllFrom(h.file, h.position)
	if err != nil {
		return nil, store.NewIO(p, err)
	}
	h.position += int64(len(data))
	v, err := encodeBytes(p, h.encoding, data)
	if err != nil {
		return nil, err
	}
	rec := value.NewParsed(v)
	return &rec, nil
}

func (s *Store) readFromOffset(p path.Path, h *handle, offset int64) (*value.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	data, err := readAllFrom(h.file, offset)
	if err != nil {
		return nil, store.NewIO(p, err)
	}
	h.position = offset + int64(len(data))
	v, err := encodeBytes(p, h.encoding, data)
	if err != nil {
		return nil, err
	}
	rec := value.NewParsed(v)
	return &rec, nil
}

// readExactly returns exactly n bytes from offset, failing Io on early EOF,
// per the store's exact-length read contract.
func (s *Store) readExactly(p path.Path, h *handle, offset int64, n int) (*value.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf := make([]byte, n)
	if _, err := h.file.ReadAt(buf, offset); err != nil {
		return nil, store.NewIO(p, err)
	}
	h.position = offset + int64(n)
	v, err := encodeBytes(p, h.encoding, buf)
	if err != nil {
		return nil, err
	}
	rec := value.NewParsed(v)
	return &rec, nil
}

func (s *Store) readPosition(h *handle) (*value.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rec := value.NewParsed(value.Map(map[string]value.Value{
		"position": value.Integer(h.position),
	}))
	return &rec, nil
}

func (s *Store) readMeta(p path.Path, h *handle) (*value.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	info, err := h.file.Stat()
	if err != nil {
		return nil, store.NewIO(p, err)
	}
	rec := value.NewParsed(value.Map(map[string]value.Value{
		"size":    value.Integer(info.Size()),
		"is_file": value.Bool(!info.IsDir()),
		"is_dir":  value.Bool(info.IsDir()),
		"path":    value.String(h.path),
	}))
	return &rec, nil
}

// readAllFrom reads from offset to EOF without disturbing the file's shared
// descriptor offset, using ReadAt in a loop.
func readAllFrom(f readerAt, offset int64) ([]byte, error) {
	var out []byte
	buf := make([]byte, 32*1024)
	pos := offset
	for {
		n, err := f.ReadAt(buf, pos)
		if n > 0 {
			out = append(out, buf[:n]...)
			pos += int64(n)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return out, nil
		}
	}
}

type readerAt interface {
	ReadAt(p []byte, off int64) (int, error)
}
