package fshandle

import (
	"context"
	"fmt"
	"strconv"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

func (s *Store) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	if p.IsEmpty() {
		return path.Empty, store.NewNotWritable(p)
	}

	switch p.At(0) {
	case "open":
		return s.doOpen(p, rec)
	case "stat":
		return s.doStat(p, rec)
	case "mkdir":
		return s.doMkdir(p, rec)
	case "rmdir":
		return s.doRmdir(p, rec)
	case "unlink":
		return s.doUnlink(p, rec)
	case "rename":
		return s.doRename(p, rec)
	case "handles":
		return s.writeHandles(p, rec)
	default:
		return path.Empty, store.NewNotWritable(p)
	}
}

func (s *Store) doOpen(p path.Path, rec value.Record) (path.Path, error) {
	v, ok := rec.AsValue()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "open requires a map value")
	}
	m, ok := v.AsMap()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "open requires a map value")
	}

	filePath, ok := m["path"]
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "open requires \"path\"")
	}
	pathStr, ok := filePath.AsString()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "\"path\" must be a string")
	}

	modeStr := "read"
	if mv, ok := m["mode"]; ok {
		s, ok := mv.AsString()
		if !ok {
			return path.Empty, store.NewValidationFailed(p, "\"mode\" must be a string")
		}
		modeStr = s
	}
	mode, ok := parseMode(modeStr)
	if !ok {
		return path.Empty, store.NewValidationFailed(p, fmt.Sprintf("unknown open mode %q", modeStr))
	}

	encStr := ""
	if ev, ok := m["encoding"]; ok {
		s, ok := ev.AsString()
		if !ok {
			return path.Empty, store.NewValidationFailed(p, "\"encoding\" must be a string")
		}
		encStr = s
	}
	encoding, ok := parseEncoding(encStr)
	if !ok {
		return path.Empty, store.NewValidationFailed(p, fmt.Sprintf("unknown encoding %q", encStr))
	}

	f, err := openFile(pathStr, mode)
	if err != nil {
		return path.Empty, store.NewIO(p, err)
	}

	pos := int64(0)
	if mode == ModeAppend {
		if info, err := f.Stat(); err == nil {
			pos = info.Size()
		}
	}

	h := &handle{file: f, path: pathStr, mode: mode, encoding: encoding, position: pos}
	id := s.addHandle(h)
	return path.Parse(fmt.Sprintf("handles/%d", id))
}

func (s *Store) writeHandles(p path.Path, rec value.Record) (path.Path, error) {
	if p.Len() < 2 {
		return path.Empty, store.NewNotWritable(p)
	}
	id, err := strconv.ParseUint(p.At(1), 10, 64)
	if err != nil {
		return path.Empty, store.NewInvalidPath(p, "handles/<id> requires a numeric id")
	}
	h, ok := s.getHandle(id)
	if !ok {
		return path.Empty, store.NewNotFound(p)
	}

	switch {
	case p.Len() == 2:
		return s.writeAtCurrentPosition(p, h, rec)
	case p.Len() == 4 && p.At(2) == "at":
		offset, err := strconv.ParseInt(p.At(3), 10, 64)
		if err != nil || offset < 0 {
			return path.Empty, store.NewInvalidPath(p, "at/<offset> requires a non-negative integer")
		}
		return s.writeAtOffset(p, h, offset, rec)
	case p.Len() == 3 && p.At(2) == "position":
		return s.seek(p, h, rec)
	case p.Len() == 3 && p.At(2) == "close":
		return s.closeHandle(p, id, rec)
	default:
		return path.Empty, store.NewNotWritable(p)
	}
}

func (s *Store) writeAtCurrentPosition(p path.Path, h *handle, rec value.Record) (path.Path, error) {
	v, ok := rec.AsValue()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "handle write requires a parsed value")
	}
	data, err := decodeBytes(p, h.encoding, v)
	if err != nil {
		return path.Empty, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	n, werr := h.file.WriteAt(data, h.position)
	if werr != nil {
		return path.Empty, store.NewIO(p, werr)
	}
	h.position += int64(n)
	return p, nil
}

func (s *Store) writeAtOffset(p path.Path, h *handle, offset int64, rec value.Record) (path.Path, error) {
	v, ok := rec.AsValue()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "handle write requires a parsed value")
	}
	data, err := decodeBytes(p, h.encoding, v)
	if err != nil {
		return path.Empty, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	n, werr := h.file.WriteAt(data, offset)
	if werr != nil {
		return path.Empty, store.NewIO(p, werr)
	}
	h.position = offset + int64(n)
	return p, nil
}

func (s *Store) seek(p path.Path, h *handle, rec value.Record) (path.Path, error) {
	v, ok := rec.AsValue()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "position write requires a map value")
	}
	m, ok := v.AsMap()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "position write requires a map value")
	}
	posVal, ok := m["pos"]
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "position write requires \"pos\"")
	}
	pos, ok := posVal.AsInteger()
	if !ok || pos < 0 {
		return path.Empty, store.NewValidationFailed(p, "\"pos\" must be a non-negative integer")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = pos
	return p, nil
}

func (s *Store) closeHandle(p path.Path, id uint64, rec value.Record) (path.Path, error) {
	v, ok := rec.AsValue()
	if !ok || !v.IsNull() {
		return path.Empty, store.NewValidationFailed(p, "close only accepts null")
	}
	h, ok := s.removeHandle(id)
	if !ok {
		return path.Empty, store.NewNotFound(p)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.file.Close(); err != nil {
		return path.Empty, store.NewIO(p, err)
	}
	return p, nil
}
