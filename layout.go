package adminkit

import (
	"errors"
	"net/http"

	"github.com/vango-dev/adminkit/pkg/drawer"
	"github.com/vango-dev/adminkit/pkg/module"
	"github.com/vango-dev/adminkit/pkg/page"
	"github.com/vango-dev/adminkit/pkg/view"
)

// handlePage resolves the request path to a module and renders the full
// admin document around it.
func (a *App) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.FromRequest(w, r)

	// The resolver decodes escapes itself; r.URL.Path is already decoded.
	path := r.URL.EscapedPath()
	p, err := a.resolver.Resolve(r.Context(), path, r.URL.Query())
	switch {
	case errors.Is(err, page.ErrNotFound):
		a.writeDocument(w, http.StatusNotFound, a.layout(r, "Not found", nil, notFound(path), nil))
		return
	case err != nil:
		if r.Context().Err() != nil {
			return
		}
		a.logger.Error("page failed", "path", path, "error", err)
		a.writeDocument(w, http.StatusInternalServerError, a.layout(r, "Error", nil, pageError(), nil))
		return
	}

	drawers := a.renderer.Render(r.Context(), sess.Store, drawer.NeverConfirm)
	a.writeDocument(w, http.StatusOK, a.layout(r, p.Title, p.Description, p.Body, drawers))
}

func (a *App) writeDocument(w http.ResponseWriter, status int, doc *view.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := a.html.Render(w, doc); err != nil {
		a.logger.Debug("writing page", "error", err)
	}
}

// layout builds the document: sidebar, page header, body and drawer stack.
func (a *App) layout(r *http.Request, title string, description, body, drawers *view.Node) *view.Node {
	active, _ := a.modules.ActiveItem(r.URL.EscapedPath())
	docTitle := a.config.Name
	if title != "" {
		docTitle = title + " · " + a.config.Name
	}

	return view.Fragment(
		view.Raw("<!DOCTYPE html>"),
		view.El("html", view.A("lang", "en"),
			view.El("head",
				view.El("meta", view.A("charset", "utf-8")),
				view.El("meta", view.A("name", "viewport"), view.A("content", "width=device-width, initial-scale=1")),
				view.El("title", docTitle),
				view.El("link", view.A("rel", "stylesheet"), view.Href(assetPrefix+"admin.css")),
				view.El("script", view.A("src", assetPrefix+"admin.js"), view.A("defer", true)),
			),
			view.El("body", view.Class("adminkit"),
				view.Aside(view.Class("adminkit-sidebar"),
					view.Div(view.Class("adminkit-brand"), view.Link(view.Href("/"), a.config.Name)),
					sidebarNav(a.modules.SidebarItems(), active),
				),
				view.Main(view.Class("adminkit-main"),
					view.Header(view.Class("adminkit-page-header"),
						view.If(title != "", view.H1(title)),
						view.If(description != nil, view.Div(view.Class("adminkit-page-description"), description)),
					),
					view.Section(view.Class("adminkit-page-body"), body),
				),
				drawers,
			),
		),
	)
}

func sidebarNav(items []module.SidebarItem, active module.Active) *view.Node {
	if len(items) == 0 {
		return nil
	}
	return view.Nav(view.Class("adminkit-nav"), view.AriaLabel("Main"), sidebarList(items, active))
}

func sidebarList(items []module.SidebarItem, active module.Active) *view.Node {
	return view.Ul(view.Range(items, func(_ int, item module.SidebarItem) *view.Node {
		isActive := item.Key == active.Key
		var label *view.Node
		if item.Path != "" {
			label = view.Link(
				view.Href(item.Path),
				activeAttr(isActive),
				item.Label,
			)
		} else {
			label = view.Span(view.Class("adminkit-nav-label"), item.Label)
		}

		var children *view.Node
		if len(item.Children) > 0 {
			children = sidebarList(item.Children, active)
		}
		return view.Li(
			view.Class("adminkit-nav-"+item.Type),
			view.Data("key", item.Key),
			view.Data("open", item.Key == active.ParentKey || item.Type == module.ItemGroup),
			view.If(item.Icon != "", view.Span(view.Class("adminkit-icon"), view.Data("icon", item.Icon))),
			label,
			children,
		)
	}))
}

func activeAttr(active bool) view.Attr {
	if !active {
		return view.Attr{}
	}
	return view.AriaCurrent("page")
}

func notFound(path string) *view.Node {
	return view.Div(view.Class("adminkit-not-found"),
		view.P("No page is registered for ", view.El("code", path), "."),
		view.Link(view.Href("/"), "Back to the dashboard"),
	)
}

func pageError() *view.Node {
	return view.Div(view.Class("adminkit-error"), view.Role("alert"), "This page could not be loaded.")
}
