package store

import "github.com/structfs/structfs/pkg/path"

// RedirectMode controls which operations a Redirect permits.
type RedirectMode int

const (
	ReadWrite RedirectMode = iota
	ReadOnly
	WriteOnly
)

// Redirect is a symbolic link in the overlay namespace: reads/writes at the
// link path are re-routed to To, subject to Mode. SourceMount identifies the
// mount that installed the redirect (via docs discovery, see mount.Store),
// enabling cascade removal when that mount is torn down.
type Redirect struct {
	To          path.Path
	Mode        RedirectMode
	SourceMount string // empty means "not owned by a mount" (manually installed)
}

// RouteTarget is a single entry in the OverlayStore's routing trie: either a
// leaf Store or a Redirect.
type RouteTarget struct {
	Store    Store // nil if this target is a Redirect
	Redirect *Redirect
}

// IsStore reports whether this target is a leaf Store.
func (t RouteTarget) IsStore() bool { return t.Store != nil }

// IsRedirect reports whether this target is a Redirect.
func (t RouteTarget) IsRedirect() bool { return t.Redirect != nil }

// StoreTarget wraps a leaf Store as a RouteTarget.
func StoreTarget(s Store) RouteTarget { return RouteTarget{Store: s} }

// RedirectTarget wraps a Redirect as a RouteTarget.
func RedirectTarget(r Redirect) RouteTarget { return RouteTarget{Redirect: &r} }
