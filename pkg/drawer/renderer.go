package drawer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/adminkit/pkg/view"
)

// DefaultWidth is the panel width used when neither the definition nor the
// renderer sets one.
const DefaultWidth = 720

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLogger sets the renderer logger.
func WithLogger(logger *slog.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDefaultWidth sets the width of definitions that declare none.
func WithDefaultWidth(px int) RendererOption {
	return func(r *Renderer) {
		if px > 0 {
			r.width = px
		}
	}
}

// WithPrompt overrides the default dirty-close prompt.
func WithPrompt(p Prompt) RendererOption {
	return func(r *Renderer) {
		if p.Title != "" {
			r.prompt.Title = p.Title
		}
		if p.Message != "" {
			r.prompt.Message = p.Message
		}
	}
}

// WithSuspense renders a loading placeholder instead of waiting for lazy
// components; the load continues in the background.
func WithSuspense(enabled bool) RendererOption {
	return func(r *Renderer) { r.suspense = enabled }
}

// Renderer turns a stack into nested panels and applies the close policy.
// One Renderer serves any number of stores.
type Renderer struct {
	registry *Registry
	logger   *slog.Logger
	width    int
	prompt   Prompt
	suspense bool
}

// NewRenderer creates a renderer resolving types through reg.
func NewRenderer(reg *Registry, opts ...RendererOption) *Renderer {
	r := &Renderer{
		registry: reg,
		logger:   slog.Default(),
		width:    DefaultWidth,
		prompt:   Prompt{Title: DefaultConfirmTitle, Message: DefaultConfirmMessage},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "drawer-renderer")
	return r
}

// Registry returns the registry the renderer resolves types with.
func (r *Renderer) Registry() *Registry { return r.registry }

// PromptFor returns the confirmation prompt for a drawer type.
func (r *Renderer) PromptFor(typ string) Prompt {
	p := r.prompt
	if def, ok := r.registry.Get(typ); ok {
		if def.CloseConfirmTitle != "" {
			p.Title = def.CloseConfirmTitle
		}
		if def.CloseConfirmMessage != "" {
			p.Message = def.CloseConfirmMessage
		}
	}
	return p
}

// NeedsConfirm reports whether closing id requires confirmation, and the
// prompt to show.
func (r *Renderer) NeedsConfirm(store *Store, id string) (Prompt, bool) {
	inst, ok := store.Get(id)
	if !ok || !inst.IsDirty {
		return Prompt{}, false
	}
	if def, ok := r.registry.Get(inst.Type); ok && def.DirtyClose == DirtyCloseDiscard {
		return Prompt{}, false
	}
	return r.PromptFor(inst.Type), true
}

// RequestClose closes id unless it is dirty and confirm declines. A nil
// confirm declines. Unregistered types use the default policy.
func (r *Renderer) RequestClose(ctx context.Context, store *Store, id string, confirm Confirmer) CloseResult {
	if store.IndexOf(id) < 0 {
		return NotFound
	}
	if prompt, ask := r.NeedsConfirm(store, id); ask {
		if confirm == nil || !confirm.Confirm(ctx, prompt) {
			r.logger.Debug("drawer close declined", "uuid", id)
			return Declined
		}
	}
	if store.IndexOf(id) < 0 {
		return NotFound
	}
	store.Close(id)
	return Closed
}

// Render renders the whole stack, bottom drawer outermost. It returns nil
// for an empty stack. confirm is used by Context.Close calls made while
// rendering.
func (r *Renderer) Render(ctx context.Context, store *Store, confirm Confirmer) *view.Node {
	stack := store.Snapshot()
	if len(stack) == 0 {
		return nil
	}
	return view.Div(
		view.Class("adminkit-drawers"),
		view.Data("depth", len(stack)),
		r.panel(ctx, store, confirm, stack, 0),
	)
}

func (r *Renderer) panel(ctx context.Context, store *Store, confirm Confirmer, stack []Instance, level int) *view.Node {
	if level >= len(stack) {
		return nil
	}
	inst := stack[level]
	nested := r.panel(ctx, store, confirm, stack, level+1)

	e, ok := r.registry.entry(inst.Type)
	if !ok {
		r.logger.Error("unknown drawer type", "type", inst.Type, "uuid", inst.UUID, "level", level)
		return nested
	}
	if e.component == nil {
		r.logger.Error("drawer type has no component", "type", inst.Type, "uuid", inst.UUID, "level", level)
		return nested
	}

	body, ok := r.body(ctx, store, confirm, e, inst, level)
	if !ok {
		return nil
	}

	title := e.def.Title
	if title == "" {
		title = inst.Type
	}
	width := e.def.Width
	if width <= 0 {
		width = r.width
	}

	return view.Aside(
		view.Class("adminkit-drawer"),
		view.Role("dialog"),
		view.A("aria-modal", "true"),
		view.AriaLabel(title),
		view.Data("drawer-uuid", inst.UUID),
		view.Data("drawer-type", inst.Type),
		view.Data("level", level),
		view.Data("dirty", inst.IsDirty),
		view.Data("push", nested != nil),
		view.StyleAttr(fmt.Sprintf("width: %dpx", width)),
		view.Header(
			view.Class("adminkit-drawer-header"),
			view.H2(title),
			view.Button(
				view.Class("adminkit-drawer-close"),
				view.Data("drawer-close", inst.UUID),
				view.AriaLabel("Close"),
				"×",
			),
		),
		view.Section(view.Class("adminkit-drawer-body"), body),
		nested,
	)
}

// body resolves and runs the component. It returns false when the instance
// left its stack slot while the component was loading.
func (r *Renderer) body(ctx context.Context, store *Store, confirm Confirmer, e *entry, inst Instance, level int) (*view.Node, bool) {
	comp, ready := e.component.Peek()
	if !ready {
		if r.suspense {
			e.component.Prefetch(ctx)
			return view.Div(view.Class("adminkit-drawer-loading"), view.AriaBusy(true), "Loading…"), true
		}

		var err error
		comp, err = e.component.Get(ctx)
		if store.IndexOf(inst.UUID) != level {
			r.logger.Debug("drawer closed while loading", "uuid", inst.UUID, "type", inst.Type)
			return nil, false
		}
		if err != nil {
			r.logger.Error("drawer component failed to load", "type", inst.Type, "uuid", inst.UUID, "error", err)
			return view.Div(view.Class("adminkit-drawer-error"), view.Role("alert"), "This panel could not be loaded."), true
		}
	}

	dc := &Context{
		uuid:     inst.UUID,
		typ:      inst.Type,
		level:    level,
		store:    store,
		renderer: r,
		confirm:  confirm,
	}
	return comp(WithContext(ctx, dc)), true
}
