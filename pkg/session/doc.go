// Package session keeps one drawer stack per browser session.
//
// A session is identified by an opaque uuid stored in a cookie. The
// Manager creates sessions on demand, evicts sessions that stay idle past
// the configured timeout, and caps the number of live sessions by evicting
// the least recently used one.
//
// Session state lives in memory only; a restarted server starts with empty
// drawer stacks.
//
//	m := session.NewManager(session.DefaultManagerConfig(), logger,
//	    session.WithStoreOptions(drawer.WithHooks(metrics.StoreHooks())),
//	)
//	defer m.Shutdown(ctx)
//
//	sess := m.FromRequest(w, r)
//	sess.Store.Open("product", drawer.Payload{"id": "42"})
package session
