package adminkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	aerrors "github.com/vango-dev/adminkit/internal/errors"
	"github.com/vango-dev/adminkit/pkg/drawer"
	"github.com/vango-dev/adminkit/pkg/module"
	"github.com/vango-dev/adminkit/pkg/session"
	"github.com/vango-dev/adminkit/pkg/view"
)

// maxBodyBytes bounds JSON request bodies of the admin API.
const maxBodyBytes = 1 << 20

type apiError struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Prompt  *drawer.Prompt `json:"prompt,omitempty"`
}

type openRequest struct {
	Type    string         `json:"type"`
	Payload drawer.Payload `json:"payload"`
}

type openResponse struct {
	UUID  string `json:"uuid"`
	Depth int    `json:"depth"`
}

type stackResponse struct {
	Drawers []drawer.Instance `json:"drawers"`
}

type closeResponse struct {
	Result  string            `json:"result"`
	Drawers []drawer.Instance `json:"drawers"`
}

type dirtyRequest struct {
	Dirty bool `json:"dirty"`
}

type drawerType struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Width       int    `json:"width"`
	DirtyClose  string `json:"dirtyClose"`
}

type routeInfo struct {
	Key       string `json:"key"`
	Module    string `json:"module"`
	Domain    string `json:"domain,omitempty"`
	Path      string `json:"path"`
	Title     string `json:"title,omitempty"`
	LoadState string `json:"loadState"`
}

type sidebarResponse struct {
	Items  []module.SidebarItem `json:"items"`
	Active *module.Active       `json:"active,omitempty"`
}

type healthResponse struct {
	Status   string        `json:"status"`
	Version  string        `json:"version"`
	Modules  int           `json:"modules"`
	Drawers  int           `json:"drawerTypes"`
	Sessions session.Stats `json:"sessions"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as the API error envelope. Coded errors keep
// their code; anything else is reported as an internal error.
func writeError(w http.ResponseWriter, status int, err error) {
	body := apiError{Error: "internal", Message: err.Error()}
	var ce *aerrors.Error
	if errors.As(err, &ce) {
		body.Error = ce.Code
		body.Message = ce.Message
		if ce.Detail != "" {
			body.Message += ": " + ce.Detail
		}
	}
	writeJSON(w, status, body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return aerrors.New("E031").WithDetail("invalid request body").Wrap(err)
	}
	return nil
}

func drawerNotFound(id string) *aerrors.Error {
	return aerrors.New("E002").WithField("uuid", id)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Version:  Version,
		Modules:  a.modules.Len(),
		Drawers:  a.drawers.Len(),
		Sessions: a.sessions.Stats(),
	})
}

func (a *App) handleRoutes(w http.ResponseWriter, r *http.Request) {
	recs := a.modules.Records()
	out := make([]routeInfo, 0, len(recs))
	for _, rec := range recs {
		out = append(out, routeInfo{
			Key:       rec.Key,
			Module:    rec.Module,
			Domain:    rec.Domain,
			Path:      rec.Path,
			Title:     rec.Title,
			LoadState: rec.LoadState().String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) handleSidebar(w http.ResponseWriter, r *http.Request) {
	resp := sidebarResponse{Items: a.modules.SidebarItems()}
	if resp.Items == nil {
		resp.Items = []module.SidebarItem{}
	}
	if path := r.URL.Query().Get("path"); path != "" {
		if active, ok := a.modules.ActiveItem(path); ok {
			resp.Active = &active
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) handleDrawerTypes(w http.ResponseWriter, r *http.Request) {
	defs := a.drawers.All()
	out := make([]drawerType, 0, len(defs))
	for _, def := range defs {
		width := def.Width
		if width <= 0 {
			width = a.config.Drawer.DefaultWidth
		}
		out = append(out, drawerType{
			Type:        def.Type,
			Title:       def.Title,
			Description: def.Description,
			Width:       width,
			DirtyClose:  def.DirtyClose.String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func stack(store *drawer.Store) []drawer.Instance {
	snap := store.Snapshot()
	if snap == nil {
		return []drawer.Instance{}
	}
	return snap
}

func (a *App) handleListDrawers(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.FromRequest(w, r)
	writeJSON(w, http.StatusOK, stackResponse{Drawers: stack(sess.Store)})
}

// handleOpenDrawer pushes a drawer. Unknown types are accepted, matching
// Store.Open, but logged.
func (a *App) handleOpenDrawer(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, aerrors.New("E032").WithDetail("missing drawer type"))
		return
	}
	if !a.drawers.Has(req.Type) {
		a.logger.Warn("opening unregistered drawer type", "type", req.Type)
	}

	sess := a.sessions.FromRequest(w, r)
	id := sess.Store.Open(req.Type, req.Payload)
	w.Header().Set("Location", "/_admin/drawers/"+id)
	writeJSON(w, http.StatusCreated, openResponse{UUID: id, Depth: sess.Store.IndexOf(id) + 1})
}

func (a *App) handleCloseAll(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.FromRequest(w, r)
	sess.Store.CloseAll()
	writeJSON(w, http.StatusOK, stackResponse{Drawers: stack(sess.Store)})
}

// handleCloseTop requests closing the topmost drawer.
func (a *App) handleCloseTop(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.FromRequest(w, r)
	top, ok := sess.Store.Top()
	if !ok {
		writeJSON(w, http.StatusOK, closeResponse{Result: drawer.NotFound.String(), Drawers: stack(sess.Store)})
		return
	}
	a.closeDrawer(w, r, sess, top.UUID)
}

func (a *App) handleGetDrawer(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.FromRequest(w, r)
	id := chi.URLParam(r, "id")
	inst, ok := sess.Store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, drawerNotFound(id))
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (a *App) handleCloseDrawer(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.FromRequest(w, r)
	a.closeDrawer(w, r, sess, chi.URLParam(r, "id"))
}

// closeDrawer runs a close request. force skips the dirty check; confirm
// answers the prompt up front. Without either a dirty drawer answers 409
// with the prompt the client should show.
func (a *App) closeDrawer(w http.ResponseWriter, r *http.Request, sess *session.Session, id string) {
	q := r.URL.Query()
	force, _ := strconv.ParseBool(q.Get("force"))
	confirmed, _ := strconv.ParseBool(q.Get("confirm"))

	if force {
		if sess.Store.IndexOf(id) < 0 {
			a.metrics.CloseRequest(drawer.NotFound)
			writeError(w, http.StatusNotFound, drawerNotFound(id))
			return
		}
		sess.Store.Close(id)
		a.metrics.CloseRequest(drawer.Closed)
		writeJSON(w, http.StatusOK, closeResponse{Result: drawer.Closed.String(), Drawers: stack(sess.Store)})
		return
	}

	var prompt drawer.Prompt
	confirmer := drawer.ConfirmFunc(func(_ context.Context, p drawer.Prompt) bool {
		prompt = p
		return confirmed
	})
	res := a.renderer.RequestClose(r.Context(), sess.Store, id, confirmer)
	a.metrics.CloseRequest(res)

	switch res {
	case drawer.NotFound:
		writeError(w, http.StatusNotFound, drawerNotFound(id))
	case drawer.Declined:
		writeJSON(w, http.StatusConflict, apiError{
			Error:   "confirm_required",
			Message: prompt.Message,
			Prompt:  &prompt,
		})
	default:
		writeJSON(w, http.StatusOK, closeResponse{Result: res.String(), Drawers: stack(sess.Store)})
	}
}

func (a *App) handleSetDirty(w http.ResponseWriter, r *http.Request) {
	var req dirtyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sess := a.sessions.FromRequest(w, r)
	id := chi.URLParam(r, "id")
	if sess.Store.IndexOf(id) < 0 {
		writeError(w, http.StatusNotFound, drawerNotFound(id))
		return
	}
	sess.Store.SetDirty(id, req.Dirty)
	inst, _ := sess.Store.Get(id)
	writeJSON(w, http.StatusOK, inst)
}

func (a *App) handleUpdatePayload(w http.ResponseWriter, r *http.Request) {
	var partial drawer.Payload
	if err := decodeBody(w, r, &partial); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sess := a.sessions.FromRequest(w, r)
	id := chi.URLParam(r, "id")
	if sess.Store.IndexOf(id) < 0 {
		writeError(w, http.StatusNotFound, drawerNotFound(id))
		return
	}
	sess.Store.UpdatePayload(id, partial)
	inst, _ := sess.Store.Get(id)
	writeJSON(w, http.StatusOK, inst)
}

// handleDrawerHTML renders the stack from the given drawer upward, so a
// client can swap a single panel subtree.
func (a *App) handleDrawerHTML(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.FromRequest(w, r)
	id := chi.URLParam(r, "id")
	if sess.Store.IndexOf(id) < 0 {
		writeError(w, http.StatusNotFound, drawerNotFound(id))
		return
	}
	node := a.renderer.Render(r.Context(), sess.Store, drawer.NeverConfirm)
	panel := findPanel(node, id)
	if panel == nil {
		// Closed while rendering.
		writeError(w, http.StatusNotFound, drawerNotFound(id))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.html.Render(w, panel); err != nil {
		a.logger.Debug("writing drawer", "uuid", id, "error", err)
	}
}

func findPanel(n *view.Node, id string) *view.Node {
	if n == nil {
		return nil
	}
	if n.Attrs["data-drawer-uuid"] == id {
		return n
	}
	for _, c := range n.Children {
		if found := findPanel(c, id); found != nil {
			return found
		}
	}
	return nil
}
