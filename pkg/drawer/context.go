package drawer

import (
	"context"

	aerrors "github.com/vango-dev/adminkit/internal/errors"
)

type contextKey struct{}

// Context is handed to a drawer component for its own instance.
type Context struct {
	uuid     string
	typ      string
	level    int
	store    *Store
	renderer *Renderer
	confirm  Confirmer
}

// WithContext returns ctx carrying dc.
func WithContext(ctx context.Context, dc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, dc)
}

// FromContext returns the drawer context, if ctx belongs to a drawer.
func FromContext(ctx context.Context) (*Context, bool) {
	dc, ok := ctx.Value(contextKey{}).(*Context)
	return dc, ok && dc != nil
}

// MustFromContext is FromContext for code that only runs inside a drawer.
// It panics when called anywhere else, which is always a programming error.
func MustFromContext(ctx context.Context) *Context {
	dc, ok := FromContext(ctx)
	if !ok {
		panic(aerrors.New("E001").
			WithSuggestion("Call MustFromContext only from a Component rendered by drawer.Renderer"))
	}
	return dc
}

// UUID returns the instance id.
func (c *Context) UUID() string { return c.uuid }

// Type returns the drawer type key.
func (c *Context) Type() string { return c.typ }

// Level returns the stack position, 0 being the bottom drawer.
func (c *Context) Level() int { return c.level }

// Payload returns the current payload: the opening payload merged with
// every later update. It is nil once the instance is gone.
func (c *Context) Payload() Payload {
	inst, ok := c.store.Get(c.uuid)
	if !ok {
		return nil
	}
	return inst.Payload
}

// IsDirty reports the current dirty flag.
func (c *Context) IsDirty() bool {
	inst, ok := c.store.Get(c.uuid)
	return ok && inst.IsDirty
}

// Open reports whether the instance is still on the stack.
func (c *Context) Open() bool {
	return c.store.IndexOf(c.uuid) >= 0
}

// Close requests closing this drawer, asking for confirmation when it is
// dirty.
func (c *Context) Close(ctx context.Context) CloseResult {
	return c.renderer.RequestClose(ctx, c.store, c.uuid, c.confirm)
}

// ForceClose closes this drawer without any dirty check, e.g. after a
// successful save.
func (c *Context) ForceClose() {
	c.store.Close(c.uuid)
}

// SetDirty marks the drawer as having unsaved changes or not.
func (c *Context) SetDirty(dirty bool) {
	c.store.SetDirty(c.uuid, dirty)
}

// UpdatePayload shallow-merges partial into the payload.
func (c *Context) UpdatePayload(partial Payload) {
	c.store.UpdatePayload(c.uuid, partial)
}

// OpenDrawer pushes another drawer on top of this one.
func (c *Context) OpenDrawer(typ string, payload Payload) string {
	return c.store.Open(typ, payload)
}
