// Package module holds the page-module registry of an admin panel.
//
// A module binds one or more route patterns to a lazily loaded page
// component and, optionally, to a sidebar entry and a domain. Domains group
// modules in the sidebar.
//
// # Precedence
//
// MatchPath scans routes in registration order and returns the first one
// that matches. It does not look for the most specific route: a pattern
// registered earlier always wins, so register "/products/new" before
// "/products/:id" when both exist.
//
// # Sidebar
//
// SidebarItems derives a fresh tree on every call. Domains are sorted by
// Order, modules within a domain by their sidebar Order, and route items
// within a module likewise; ties keep registration order. Modules without a
// domain appear at the top level. Modules whose domain was never registered
// are left out, as are domains with no visible modules.
package module
