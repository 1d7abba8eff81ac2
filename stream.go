package adminkit

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	aerrors "github.com/vango-dev/adminkit/internal/errors"
	"github.com/vango-dev/adminkit/pkg/drawer"
	"github.com/vango-dev/adminkit/pkg/session"
)

const (
	streamWriteWait    = 10 * time.Second
	streamPongWait     = 60 * time.Second
	streamPingInterval = (streamPongWait * 9) / 10
	streamReadLimit    = 64 << 10
	streamOutBuffer    = 16
)

// Stream message types sent by the client.
const (
	msgOpen          = "open"
	msgClose         = "close"
	msgCloseTop      = "closeTop"
	msgCloseAll      = "closeAll"
	msgSetDirty      = "setDirty"
	msgUpdatePayload = "updatePayload"
)

// Stream event types sent by the server.
const (
	evtSnapshot    = "snapshot"
	evtOpened      = "opened"
	evtCloseResult = "closeResult"
	evtError       = "error"
)

// streamMessage is a client command on the drawer stream.
type streamMessage struct {
	Type    string         `json:"type"`
	UUID    string         `json:"uuid,omitempty"`
	Drawer  string         `json:"drawer,omitempty"`
	Payload drawer.Payload `json:"payload,omitempty"`
	Dirty   bool           `json:"dirty,omitempty"`
	Confirm bool           `json:"confirm,omitempty"`
	Force   bool           `json:"force,omitempty"`
}

// streamEvent is a server event. Every event carries the stack as it was
// when the event was written.
type streamEvent struct {
	Type    string            `json:"type"`
	Drawers []drawer.Instance `json:"drawers"`
	UUID    string            `json:"uuid,omitempty"`
	Result  string            `json:"result,omitempty"`
	Prompt  *drawer.Prompt    `json:"prompt,omitempty"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// handleStream upgrades to a websocket that pushes the session's drawer
// stack on every change and accepts stack commands.
func (a *App) handleStream(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.FromRequest(w, r)

	// The handshake bypasses w, so the session cookie must ride along.
	var hdr http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		hdr = http.Header{"Set-Cookie": cookies}
	}
	conn, err := upgrader.Upgrade(w, r, hdr)
	if err != nil {
		a.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	if !a.trackStream(conn) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(streamWriteWait))
		conn.Close()
		return
	}
	defer a.untrackStream(conn)

	a.metrics.StreamOpened()
	defer a.metrics.StreamClosed()

	logger := a.logger.With("session_id", sess.ID)
	logger.Debug("drawer stream opened")

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	changed := make(chan struct{}, 1)
	unsubscribe := sess.Store.Subscribe(func([]drawer.Instance) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	out := make(chan streamEvent, streamOutBuffer)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		a.streamWriter(ctx, conn, sess, changed, out)
	}()

	a.streamReader(ctx, conn, sess, out)
	cancel()
	<-writerDone
	conn.Close()
	logger.Debug("drawer stream closed")
}

// streamWriter owns all writes to conn.
func (a *App) streamWriter(ctx context.Context, conn *websocket.Conn, sess *session.Session, changed <-chan struct{}, out <-chan streamEvent) {
	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	write := func(ev streamEvent) bool {
		ev.Drawers = stack(sess.Store)
		conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteJSON(ev); err != nil {
			a.logger.Debug("stream write failed", "error", err)
			return false
		}
		return true
	}

	if !write(streamEvent{Type: evtSnapshot}) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(streamWriteWait))
			return
		case <-changed:
			if !write(streamEvent{Type: evtSnapshot}) {
				return
			}
		case ev := <-out:
			if !write(ev) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func (a *App) streamReader(ctx context.Context, conn *websocket.Conn, sess *session.Session, out chan<- streamEvent) {
	conn.SetReadLimit(streamReadLimit)
	conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				a.logger.Warn("stream read error", "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		if _, ok := a.sessions.Get(sess.ID); !ok && sess.ID != "" {
			// Evicted; the client reconnects for a fresh session.
			return
		}

		ev, reply := a.applyStreamMessage(ctx, sess, msg)
		if !reply {
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// applyStreamMessage runs one command. Commands whose only effect is a
// stack change produce no reply; the snapshot covers them.
func (a *App) applyStreamMessage(ctx context.Context, sess *session.Session, msg streamMessage) (streamEvent, bool) {
	store := sess.Store
	switch msg.Type {
	case msgOpen:
		if msg.Drawer == "" {
			return streamError(aerrors.New("E032").WithDetail("missing drawer type")), true
		}
		if !a.drawers.Has(msg.Drawer) {
			a.logger.Warn("opening unregistered drawer type", "type", msg.Drawer)
		}
		return streamEvent{Type: evtOpened, UUID: store.Open(msg.Drawer, msg.Payload)}, true

	case msgClose, msgCloseTop:
		id := msg.UUID
		if msg.Type == msgCloseTop {
			top, ok := store.Top()
			if !ok {
				return streamEvent{Type: evtCloseResult, Result: drawer.NotFound.String()}, true
			}
			id = top.UUID
		}
		var prompt drawer.Prompt
		confirm := drawer.ConfirmFunc(func(_ context.Context, p drawer.Prompt) bool {
			prompt = p
			return msg.Confirm || msg.Force
		})
		res := a.renderer.RequestClose(ctx, store, id, confirm)
		a.metrics.CloseRequest(res)
		ev := streamEvent{Type: evtCloseResult, UUID: id, Result: res.String()}
		if res == drawer.Declined {
			ev.Prompt = &prompt
		}
		return ev, true

	case msgCloseAll:
		store.CloseAll()
		return streamEvent{}, false

	case msgSetDirty:
		if store.IndexOf(msg.UUID) < 0 {
			return streamError(drawerNotFound(msg.UUID)), true
		}
		store.SetDirty(msg.UUID, msg.Dirty)
		return streamEvent{}, false

	case msgUpdatePayload:
		if store.IndexOf(msg.UUID) < 0 {
			return streamError(drawerNotFound(msg.UUID)), true
		}
		store.UpdatePayload(msg.UUID, msg.Payload)
		return streamEvent{}, false
	}
	return streamEvent{Type: evtError, Error: "unknown_message", Message: "unknown message type " + msg.Type}, true
}

func streamError(err *aerrors.Error) streamEvent {
	msg := err.Message
	if err.Detail != "" {
		msg += ": " + err.Detail
	}
	return streamEvent{Type: evtError, Error: err.Code, Message: msg}
}

// trackStream registers conn so Close can end it. It reports false once
// the app is closing.
func (a *App) trackStream(conn *websocket.Conn) bool {
	a.streamsMu.Lock()
	defer a.streamsMu.Unlock()
	if a.closing {
		return false
	}
	a.streams[conn] = struct{}{}
	return true
}

func (a *App) untrackStream(conn *websocket.Conn) {
	a.streamsMu.Lock()
	delete(a.streams, conn)
	a.streamsMu.Unlock()
}

// closeStreams ends every open stream. Hijacked connections are not
// covered by http.Server.Shutdown.
func (a *App) closeStreams() {
	a.streamsMu.Lock()
	a.closing = true
	conns := make([]*websocket.Conn, 0, len(a.streams))
	for c := range a.streams {
		conns = append(conns, c)
	}
	a.streamsMu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
