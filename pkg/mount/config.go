// Package mount implements MountStore: mount lifecycle driven by writes to
// the _mounts control prefix, store construction via a factory, and
// mount-time documentation discovery that feeds the help namespace.
package mount

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/structfs/structfs/pkg/value"
)

// Config is a tagged sum of recognized mount variants, matching spec.md
// §3.6. It is itself a Value, round-tripping through the mount table's
// read/write interface.
type Config struct {
	Type string `mapstructure:"type"`

	Local      LocalConfig      `mapstructure:"-"`
	Http       HttpConfig       `mapstructure:"-"`
	HttpBroker HttpBrokerConfig `mapstructure:"-"`
}

// LocalConfig configures the Local mount variant.
type LocalConfig struct {
	Path string `mapstructure:"path"`
}

// HttpConfig configures the Http mount variant.
type HttpConfig struct {
	BaseURL        string            `mapstructure:"base_url"`
	DefaultHeaders map[string]string `mapstructure:"default_headers"`
}

// HttpBrokerConfig configures the HttpBroker mount variant.
type HttpBrokerConfig struct {
	TimeoutSeconds int `mapstructure:"timeout"`
}

const (
	TypeMemory     = "memory"
	TypeLocal      = "local"
	TypeHttp       = "http"
	TypeHttpBroker = "http_broker"
	TypeSys        = "sys"
	TypeRegisters  = "registers"
	TypeHelp       = "help"
)

// DecodeConfig turns a mount-table Value into a Config, dispatching the
// type-specific payload by decoding a tagged config union with mapstructure
// per variant.
func DecodeConfig(v value.Value) (Config, error) {
	m, ok := v.AsMap()
	if !ok {
		return Config{}, fmt.Errorf("mount config must be a map")
	}
	typeVal, ok := m["type"]
	if !ok {
		return Config{}, fmt.Errorf("mount config missing \"type\"")
	}
	typeStr, ok := typeVal.AsString()
	if !ok {
		return Config{}, fmt.Errorf("mount config \"type\" must be a string")
	}

	cfg := Config{Type: typeStr}
	raw := valueToPlainMap(m)

	switch typeStr {
	case TypeMemory, TypeHttpBroker, TypeSys, TypeRegisters, TypeHelp:
		if typeStr == TypeHttpBroker {
			if err := mapstructure.Decode(raw, &cfg.HttpBroker); err != nil {
				return Config{}, fmt.Errorf("invalid http_broker config: %w", err)
			}
		}
		return cfg, nil
	case TypeLocal:
		if err := mapstructure.Decode(raw, &cfg.Local); err != nil {
			return Config{}, fmt.Errorf("invalid local config: %w", err)
		}
		return cfg, nil
	case TypeHttp:
		if err := mapstructure.Decode(raw, &cfg.Http); err != nil {
			return Config{}, fmt.Errorf("invalid http config: %w", err)
		}
		return cfg, nil
	default:
		return Config{}, fmt.Errorf("unknown mount type %q", typeStr)
	}
}

// EncodeConfig turns a Config back into a Value for round-tripping through
// reads of _mounts/<name>.
func EncodeConfig(cfg Config) value.Value {
	m := map[string]value.Value{"type": value.String(cfg.Type)}
	switch cfg.Type {
	case TypeLocal:
		m["path"] = value.String(cfg.Local.Path)
	case TypeHttp:
		m["base_url"] = value.String(cfg.Http.BaseURL)
		headers := make(map[string]value.Value, len(cfg.Http.DefaultHeaders))
		for k, v := range cfg.Http.DefaultHeaders {
			headers[k] = value.String(v)
		}
		m["default_headers"] = value.Map(headers)
	case TypeHttpBroker:
		if cfg.HttpBroker.TimeoutSeconds != 0 {
			m["timeout"] = value.Integer(int64(cfg.HttpBroker.TimeoutSeconds))
		}
	}
	return value.Map(m)
}

func valueToPlainMap(m map[string]value.Value) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = valueToPlain(v)
	}
	return out
}

func valueToPlain(v value.Value) interface{} {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindInteger:
		i, _ := v.AsInteger()
		return i
	case value.KindFloat:
		f, _ := v.AsFloat()
		return f
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindBytes:
		b, _ := v.AsBytes()
		return b
	case value.KindArray:
		arr, _ := v.AsArray()
		out := make([]interface{}, len(arr))
		for i, e := range arr {
			out[i] = valueToPlain(e)
		}
		return out
	case value.KindMap:
		mm, _ := v.AsMap()
		return valueToPlainMap(mm)
	default:
		return nil
	}
}
