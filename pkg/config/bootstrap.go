package config

import (
	"context"
	"fmt"

	"github.com/structfs/structfs/pkg/mount"
	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/value"
)

// ApplyBootstrap installs cfg.Bootstrap into mounts, one write to
// _mounts/<name> per entry, in order, driving the same _mounts control
// prefix a client would use at runtime.
func ApplyBootstrap(ctx context.Context, mounts *mount.Store, entries []BootstrapMount) error {
	for _, e := range entries {
		cfgVal := bootstrapConfigValue(e)
		mountsPath, err := path.Parse(fmt.Sprintf("_mounts/%s", e.Name))
		if err != nil {
			return fmt.Errorf("bootstrap entry %q: invalid mount name: %w", e.Name, err)
		}
		if _, err := mounts.Write(ctx, mountsPath, value.NewParsed(cfgVal)); err != nil {
			return fmt.Errorf("bootstrap entry %q: %w", e.Name, err)
		}
	}
	return nil
}

func bootstrapConfigValue(e BootstrapMount) value.Value {
	m := map[string]value.Value{"type": value.String(e.Type)}
	for k, v := range e.Params {
		m[k] = paramToValue(v)
	}
	return value.Map(m)
}

func paramToValue(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null
	case string:
		return value.String(t)
	case bool:
		return value.Bool(t)
	case int:
		return value.Integer(int64(t))
	case int64:
		return value.Integer(t)
	case float64:
		return value.Float(t)
	case []interface{}:
		items := make([]value.Value, len(t))
		for i, e := range t {
			items[i] = paramToValue(e)
		}
		return value.Array(items...)
	case map[string]interface{}:
		m := make(map[string]value.Value, len(t))
		for k, e := range t {
			m[k] = paramToValue(e)
		}
		return value.Map(m)
	default:
		return value.Null
	}
}
