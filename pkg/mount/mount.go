package mount

import (
	"context"
	"sort"
	"sync"

	"github.com/structfs/structfs/pkg/help"
	"github.com/structfs/structfs/pkg/overlay"
	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/store"
	"github.com/structfs/structfs/pkg/value"
)

// DefaultHelpPrefix is the reference choice for where mount-time docs
// discovery installs its redirects, per spec.md §4.4.
var DefaultHelpPrefix = path.MustParse("ctx/help")

const mountsPrefix = "_mounts"

// Store wraps an OverlayStore and exposes mount management as a Store: the
// _mounts control prefix creates, replaces, and destroys mounts; every other
// path falls through to the wrapped Overlay.
type Store struct {
	mu         sync.Mutex
	overlay    *overlay.Store
	factory    *StoreFactory
	helpIndex  *help.Store
	helpPrefix path.Path

	names     map[string]bool
	configs   map[string]Config
	manifests map[string]help.Manifest
}

// New returns an empty MountStore wrapping a fresh OverlayStore, with
// docs-discovery redirects installed under helpPrefix and notifying
// helpIndex on every mount/unmount.
func New(helpIndex *help.Store, helpPrefix path.Path) *Store {
	return &Store{
		overlay:    overlay.New(),
		factory:    NewStoreFactory(helpIndex),
		helpIndex:  helpIndex,
		helpPrefix: helpPrefix,
		names:      make(map[string]bool),
		configs:    make(map[string]Config),
		manifests:  make(map[string]help.Manifest),
	}
}

// Overlay exposes the wrapped OverlayStore for callers that need to mount
// fixed (non-_mounts-managed) Stores directly, e.g. a default composition.
func (s *Store) Overlay() *overlay.Store { return s.overlay }

func (s *Store) Read(ctx context.Context, p path.Path) (*value.Record, error) {
	if p.Len() >= 1 && p.At(0) == mountsPrefix {
		return s.readMounts(p)
	}
	return s.overlay.Read(ctx, p)
}

func (s *Store) Write(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	if p.Len() >= 1 && p.At(0) == mountsPrefix {
		return s.writeMounts(ctx, p, rec)
	}
	return s.overlay.Write(ctx, p, rec)
}

func (s *Store) readMounts(p path.Path) (*value.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Len() == 1 {
		names := make([]string, 0, len(s.names))
		for n := range s.names {
			names = append(names, n)
		}
		sort.Strings(names)
		items := make([]value.Value, len(names))
		for i, n := range names {
			items[i] = value.String(n)
		}
		rec := value.NewParsed(value.Array(items...))
		return &rec, nil
	}

	name := p.Slice(1, p.Len()).String()
	cfg, ok := s.configs[name]
	if !ok {
		return nil, nil
	}
	rec := value.NewParsed(EncodeConfig(cfg))
	return &rec, nil
}

func (s *Store) writeMounts(ctx context.Context, p path.Path, rec value.Record) (path.Path, error) {
	if p.Len() < 2 {
		return path.Empty, store.NewInvalidPath(p, "_mounts requires a mount name")
	}
	name := p.Slice(1, p.Len()).String()

	v, ok := rec.AsValue()
	if !ok {
		return path.Empty, store.NewValidationFailed(p, "_mounts write requires a parsed value")
	}
	if v.IsNull() {
		return s.destroy(p, name)
	}
	return s.create(ctx, p, name, v)
}

func (s *Store) create(ctx context.Context, p path.Path, name string, cfgVal value.Value) (path.Path, error) {
	mountPath, err := path.Parse(name)
	if err != nil {
		return path.Empty, store.NewInvalidPath(p, "invalid mount name: "+err.Error())
	}

	cfg, err := DecodeConfig(cfgVal)
	if err != nil {
		return path.Empty, store.NewValidationFailed(p, err.Error())
	}

	s.mu.Lock()
	alreadyPresent := s.names[name]
	s.mu.Unlock()
	if alreadyPresent {
		if _, err := s.destroy(p, name); err != nil {
			return path.Empty, err
		}
	}

	leaf, err := s.factory.CreateInstrumented(name, cfg)
	if err != nil {
		return path.Empty, store.NewValidationFailed(p, err.Error())
	}

	s.overlay.Mount(mountPath, leaf)

	manifest := s.discoverDocs(ctx, mountPath, name)

	s.mu.Lock()
	s.names[name] = true
	s.configs[name] = cfg
	if manifest != nil {
		s.manifests[name] = *manifest
	}
	s.mu.Unlock()

	s.rebuildHelpIndex()

	return mountPath, nil
}

func (s *Store) destroy(p path.Path, name string) (path.Path, error) {
	s.mu.Lock()
	if !s.names[name] {
		s.mu.Unlock()
		return path.Empty, store.NewNotFound(p)
	}
	s.mu.Unlock()

	mountPath, err := path.Parse(name)
	if err != nil {
		return path.Empty, store.NewInvalidPath(p, "invalid mount name: "+err.Error())
	}

	s.overlay.Unmount(mountPath)
	s.overlay.RemoveRedirectsForMount(name)

	s.mu.Lock()
	delete(s.names, name)
	delete(s.configs, name)
	delete(s.manifests, name)
	s.mu.Unlock()

	s.rebuildHelpIndex()

	return p, nil
}

// discoverDocs probes <mount>/docs through the Overlay after the Store is
// installed (so the probe itself routes through normal lookup), and returns
// the resulting Manifest if the probe yields a value.
func (s *Store) discoverDocs(ctx context.Context, mountPath path.Path, name string) *help.Manifest {
	docsPath, err := mountPath.JoinComponents("docs")
	if err != nil {
		return nil
	}
	rec, err := s.overlay.Read(ctx, docsPath)
	if err != nil || rec == nil {
		return nil
	}
	v, ok := rec.AsValue()
	if !ok {
		return nil
	}

	manifest := manifestFromValue(v)

	helpTopicPath, err := s.helpPrefix.JoinComponents(name)
	if err != nil {
		return nil
	}
	s.overlay.AddRedirect(helpTopicPath, docsPath, store.ReadOnly, name)

	return &manifest
}

func manifestFromValue(v value.Value) help.Manifest {
	m, ok := v.AsMap()
	if !ok {
		return help.Manifest{}
	}
	manifest := help.Manifest{}
	if t, ok := m["title"]; ok {
		manifest.Title, _ = t.AsString()
	}
	if d, ok := m["description"]; ok {
		manifest.Description, _ = d.AsString()
	}
	if c, ok := m["children"]; ok {
		if arr, ok := c.AsArray(); ok {
			for _, e := range arr {
				if s, ok := e.AsString(); ok {
					manifest.Children = append(manifest.Children, s)
				}
			}
		}
	}
	if k, ok := m["keywords"]; ok {
		if arr, ok := k.AsArray(); ok {
			for _, e := range arr {
				if s, ok := e.AsString(); ok {
					manifest.Keywords = append(manifest.Keywords, s)
				}
			}
		}
	}
	return manifest
}

func (s *Store) rebuildHelpIndex() {
	if s.helpIndex == nil {
		return
	}
	entries := s.overlay.Redirects()
	s.mu.Lock()
	manifests := make(map[string]help.Manifest, len(s.manifests))
	for k, v := range s.manifests {
		manifests[k] = v
	}
	s.mu.Unlock()

	var helpEntries []help.RedirectEntry
	for _, e := range entries {
		if !e.Path.HasPrefix(s.helpPrefix) {
			continue
		}
		helpEntries = append(helpEntries, help.RedirectEntry{
			From: e.Path.String(),
			To:   e.Value.Redirect.To.String(),
			Mode: redirectModeString(e.Value.Redirect.Mode),
		})
	}
	s.helpIndex.Rebuild(helpEntries, manifests)
}

func redirectModeString(m store.RedirectMode) string {
	switch m {
	case store.ReadOnly:
		return "read_only"
	case store.WriteOnly:
		return "write_only"
	default:
		return "read_write"
	}
}

var _ store.Store = (*Store)(nil)
