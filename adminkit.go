// Package adminkit serves an admin panel built from registered page
// modules and stacked drawers.
//
// An App ties together the module registry (routes, sidebar), the page
// resolver, the drawer registry and renderer, and a per-session drawer
// stack. It exposes the rendered admin pages, a JSON API to drive the
// drawer stack, and a websocket stream of stack snapshots.
//
//	mods := module.NewRegistry()
//	drawers := drawer.NewRegistry()
//	inventory.Register(mods, drawers)
//
//	app := adminkit.New(adminkit.Config{
//	    Name:    "Inventory",
//	    Modules: mods,
//	    Drawers: drawers,
//	})
//	defer app.Close(ctx)
//	http.ListenAndServe(":8080", app)
package adminkit

// Version is the adminkit release.
const Version = "0.4.0"
