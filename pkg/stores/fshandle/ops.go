package fshandle

import (
	"fmt"
	"os"

	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

func openFile(name string, mode Mode) (*os.File, error) {
	return os.OpenFile(name, mode.osFlags(), 0o644)
}

func stringField(p path.Path, m map[string]value.Value, key string) (string, error) {
	fv, ok := m[key]
	if !ok {
		return "", store.NewValidationFailed(p, "missing required field \""+key+"\"")
	}
	s, ok := fv.AsString()
	if !ok {
		return "", store.NewValidationFailed(p, "field \""+key+"\" must be a string")
	}
	return s, nil
}

func asMap(p path.Path, rec value.Record) (map[string]value.Value, error) {
	v, ok := rec.AsValue()
	if !ok {
		return nil, store.NewValidationFailed(p, "operation requires a map value")
	}
	m, ok := v.AsMap()
	if !ok {
		return nil, store.NewValidationFailed(p, "operation requires a map value")
	}
	return m, nil
}

func (s *Store) doStat(p path.Path, rec value.Record) (path.Path, error) {
	m, err := asMap(p, rec)
	if err != nil {
		return path.Empty, err
	}
	target, err := stringField(p, m, "path")
	if err != nil {
		return path.Empty, err
	}
	info, statErr := os.Stat(target)
	if statErr != nil {
		return path.Empty, store.NewIO(p, statErr)
	}
	result := value.Map(map[string]value.Value{
		"size":    value.Integer(info.Size()),
		"is_file": value.Bool(!info.IsDir()),
		"is_dir":  value.Bool(info.IsDir()),
		"path":    value.String(target),
	})
	id := s.addResult(result)
	return path.Parse(fmt.Sprintf("results/%d", id))
}

func (s *Store) doMkdir(p path.Path, rec value.Record) (path.Path, error) {
	m, err := asMap(p, rec)
	if err != nil {
		return path.Empty, err
	}
	target, err := stringField(p, m, "path")
	if err != nil {
		return path.Empty, err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return path.Empty, store.NewIO(p, err)
	}
	return p, nil
}

func (s *Store) doRmdir(p path.Path, rec value.Record) (path.Path, error) {
	m, err := asMap(p, rec)
	if err != nil {
		return path.Empty, err
	}
	target, err := stringField(p, m, "path")
	if err != nil {
		return path.Empty, err
	}
	if err := os.Remove(target); err != nil {
		return path.Empty, store.NewIO(p, err)
	}
	return p, nil
}

func (s *Store) doUnlink(p path.Path, rec value.Record) (path.Path, error) {
	m, err := asMap(p, rec)
	if err != nil {
		return path.Empty, err
	}
	target, err := stringField(p, m, "path")
	if err != nil {
		return path.Empty, err
	}
	if err := os.Remove(target); err != nil {
		return path.Empty, store.NewIO(p, err)
	}
	return p, nil
}

func (s *Store) doRename(p path.Path, rec value.Record) (path.Path, error) {
	m, err := asMap(p, rec)
	if err != nil {
		return path.Empty, err
	}
	from, err := stringField(p, m, "from")
	if err != nil {
		return path.Empty, err
	}
	to, err := stringField(p, m, "to")
	if err != nil {
		return path.Empty, err
	}
	if err := os.Rename(from, to); err != nil {
		return path.Empty, store.NewIO(p, err)
	}
	return p, nil
}
