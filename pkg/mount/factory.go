package mount

import (
	"fmt"
	"time"

	"github.com/structfs/structfs/pkg/help"
	"github.com/structfs/structfs/pkg/metrics"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/stores/broker"
	"github.com/structfs/structfs/pkg/stores/fshandle"
	"github.com/structfs/structfs/pkg/stores/httpstore"
	"github.com/structfs/structfs/pkg/stores/localstore"
	"github.com/structfs/structfs/pkg/stores/memory"
	"github.com/structfs/structfs/pkg/stores/register"
	"github.com/structfs/structfs/pkg/stores/sys"
)

// StoreFactory constructs a leaf Store from a Config. The default
// implementation covers every built-in variant; HelpIndex lets the Help
// variant hand back the shared docs aggregator the MountStore already owns.
type StoreFactory struct {
	HelpIndex *help.Store
}

// NewStoreFactory returns a factory wired to helpIndex for the Help variant.
func NewStoreFactory(helpIndex *help.Store) *StoreFactory {
	return &StoreFactory{HelpIndex: helpIndex}
}

// Create builds the Store described by cfg, or fails if the type is
// unrecognized or its config is invalid.
func (f *StoreFactory) Create(cfg Config) (store.Store, error) {
	switch cfg.Type {
	case TypeMemory:
		return memory.New(), nil
	case TypeLocal:
		if cfg.Local.Path == "" {
			return nil, fmt.Errorf("local mount requires \"path\"")
		}
		return localstore.New(cfg.Local.Path)
	case TypeHttp:
		if cfg.Http.BaseURL == "" {
			return nil, fmt.Errorf("http mount requires \"base_url\"")
		}
		return httpstore.New(cfg.Http.BaseURL, cfg.Http.DefaultHeaders), nil
	case TypeHttpBroker:
		timeout := 30 * time.Second
		if cfg.HttpBroker.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.HttpBroker.TimeoutSeconds) * time.Second
		}
		return broker.New(broker.NewHTTPExecutor(timeout, nil)), nil
	case TypeSys:
		return sys.NewWithFS(fshandle.New()), nil
	case TypeRegisters:
		return register.New(), nil
	case TypeHelp:
		if f.HelpIndex == nil {
			return nil, fmt.Errorf("help mount requested but no help index is wired")
		}
		return f.HelpIndex, nil
	default:
		return nil, fmt.Errorf("unknown mount type %q", cfg.Type)
	}
}

// CreateInstrumented builds the Store for cfg the same way Create does, then
// wraps it so every Read/Write is counted and timed under name on /metrics.
func (f *StoreFactory) CreateInstrumented(name string, cfg Config) (store.Store, error) {
	leaf, err := f.Create(cfg)
	if err != nil {
		return nil, err
	}
	return metrics.Wrap(name, leaf), nil
}
