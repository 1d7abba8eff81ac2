package drawer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/adminkit/pkg/lazy"
	"github.com/vango-dev/adminkit/pkg/view"
)

// Component renders the body of a drawer. The drawer's *Context is
// available through FromContext(ctx).
type Component func(ctx context.Context) *view.Node

// DirtyClose is the policy applied when a dirty drawer is asked to close.
type DirtyClose uint8

const (
	// DirtyCloseConfirm asks for confirmation first. It is the default.
	DirtyCloseConfirm DirtyClose = iota

	// DirtyCloseDiscard closes without asking.
	DirtyCloseDiscard
)

// String implements fmt.Stringer.
func (d DirtyClose) String() string {
	if d == DirtyCloseDiscard {
		return "discard"
	}
	return "confirm"
}

// Definition describes a drawer type.
type Definition struct {
	// Type is the unique key instances refer to.
	Type string

	// Title is shown in the panel header.
	Title string

	// Description is optional markdown shown in type listings.
	Description string

	// Component renders the panel body. Exactly one of Component and Load
	// should be set; Component wins when both are.
	Component Component

	// Load obtains the component on first render.
	Load lazy.Loader[Component]

	// Width in pixels; zero uses the renderer default.
	Width int

	// DirtyClose selects the dirty-close policy.
	DirtyClose DirtyClose

	// CloseConfirmTitle and CloseConfirmMessage override the renderer's
	// confirmation prompt.
	CloseConfirmTitle   string
	CloseConfirmMessage string
}

type entry struct {
	def       Definition
	component *lazy.Value[Component]
}

// Registry maps drawer types to definitions. It is safe for concurrent use.
type Registry struct {
	logger *slog.Logger

	mu        sync.RWMutex
	entries   map[string]*entry
	order     []string
	listeners map[int]func()
	nextID    int
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		logger:    slog.Default(),
		entries:   make(map[string]*entry),
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "drawer-registry")
	return r
}

// Register adds def. Registering a type twice logs a warning and the later
// definition wins. A definition without a type key is dropped with an
// error; one without Component or Load is kept but renders nothing.
func (r *Registry) Register(def Definition) {
	if def.Type == "" {
		r.logger.Error("drawer definition has no type, ignoring", "title", def.Title)
		return
	}
	e := &entry{def: def}
	switch {
	case def.Component != nil:
		e.component = lazy.Of(def.Component)
	case def.Load != nil:
		e.component = lazy.New(def.Load)
	default:
		r.logger.Warn("drawer type has no component", "type", def.Type)
	}

	r.mu.Lock()
	if _, exists := r.entries[def.Type]; exists {
		r.logger.Warn("drawer type already registered, overwriting", "type", def.Type)
	} else {
		r.order = append(r.order, def.Type)
	}
	r.entries[def.Type] = e
	r.mu.Unlock()

	r.notify()
}

// RegisterMany registers each definition in order.
func (r *Registry) RegisterMany(defs ...Definition) {
	for _, def := range defs {
		r.Register(def)
	}
}

// Unregister removes a type and reports whether it was registered.
func (r *Registry) Unregister(typ string) bool {
	r.mu.Lock()
	_, ok := r.entries[typ]
	if ok {
		delete(r.entries, typ)
		for i, t := range r.order {
			if t == typ {
				r.order = append(r.order[:i:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	if ok {
		r.notify()
	}
	return ok
}

// Get returns the definition of typ.
func (r *Registry) Get(typ string) (Definition, bool) {
	e, ok := r.entry(typ)
	if !ok {
		return Definition{}, false
	}
	return e.def, true
}

func (r *Registry) entry(typ string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[typ]
	return e, ok
}

// Has reports whether typ is registered.
func (r *Registry) Has(typ string) bool {
	_, ok := r.entry(typ)
	return ok
}

// Types returns the registered type keys in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns every definition in registration order.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.entries[t].def)
	}
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Subscribe registers fn to run after every change and returns a function
// that removes it.
func (r *Registry) Subscribe(fn func()) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}

// Clear removes every definition.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.entries = make(map[string]*entry)
	r.order = nil
	r.mu.Unlock()
	r.notify()
}

func (r *Registry) notify() {
	r.mu.RLock()
	fns := make([]func(), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
