package module

import (
	"context"
	"net/url"

	"github.com/vango-dev/adminkit/pkg/lazy"
	"github.com/vango-dev/adminkit/pkg/pathmatch"
	"github.com/vango-dev/adminkit/pkg/view"
)

// Props is what a page component receives.
type Props struct {
	// Pathname is the canonical request path.
	Pathname string

	// Segments are the path segments of Pathname.
	Segments []string

	// Query holds the parsed query string.
	Query url.Values

	// Params are the decoded parameters of the matched route.
	Params pathmatch.Params
}

// Component renders a page.
type Component func(ctx context.Context, props Props) *view.Node

// Loader obtains a page component, possibly after expensive setup.
type Loader = lazy.Loader[Component]

// Domain groups modules in the sidebar.
type Domain struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

// Sidebar is the navigation metadata of a module or route.
type Sidebar struct {
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
	Order int    `json:"order"`
}

// Route is one routable page inside a module.
type Route struct {
	// Key identifies the route in the sidebar; defaults to Path.
	Key string

	// Path is the route pattern, see package pathmatch.
	Path string

	// Title is shown in the page header.
	Title string

	// Load obtains the component on first use. Exactly one of Load and
	// Component must be set.
	Load Loader

	// Component is an eagerly available component.
	Component Component

	// Sidebar places the route in the navigation when set.
	Sidebar *Sidebar
}

// Config registers a module. A module declares a single route through
// Path, a set of routes through Items, or both; the single route comes
// first in matching order.
type Config struct {
	// Key identifies the module; defaults to Path.
	Key string

	// Domain is the key of the domain the module belongs to.
	Domain string

	// Title is shown in the page header for the module's own route.
	Title string

	// Description is markdown shown below the page title.
	Description string

	Path      string
	Load      Loader
	Component Component
	Sidebar   *Sidebar

	Items []Route
}

// Record is a compiled route held by the registry. Records are created at
// registration and never mutated.
type Record struct {
	Key         string
	Module      string
	Domain      string
	Path        string
	Title       string
	Description string
	Sidebar     *Sidebar
	Matcher     *pathmatch.Matcher

	component *lazy.Value[Component]
}

// Component returns the record's page component, loading it on first use.
func (r *Record) Component(ctx context.Context) (Component, error) {
	return r.component.Get(ctx)
}

// Prefetch starts loading the component without waiting for it.
func (r *Record) Prefetch(ctx context.Context) {
	r.component.Prefetch(ctx)
}

// LoadState reports whether the component has been loaded.
func (r *Record) LoadState() lazy.State {
	return r.component.State()
}

// Match is a successful MatchPath result.
type Match struct {
	Record *Record
	Params pathmatch.Params
}

// Item types of a SidebarItem.
const (
	ItemGroup  = "group"
	ItemModule = "module"
	ItemRoute  = "route"
)

// SidebarItem is a node of the derived navigation tree.
type SidebarItem struct {
	Key      string        `json:"key"`
	Label    string        `json:"label"`
	Icon     string        `json:"icon,omitempty"`
	Order    int           `json:"order"`
	Path     string        `json:"path,omitempty"`
	Type     string        `json:"type"`
	Children []SidebarItem `json:"children,omitempty"`
}

// Active identifies the sidebar entry that matches a pathname.
type Active struct {
	Key       string `json:"key"`
	ParentKey string `json:"parentKey,omitempty"`
}
