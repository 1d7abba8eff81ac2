// Package drawer implements stacked side panels ("drawers").
//
// The Registry answers which drawer types exist: it maps a type key to a
// component, a width and a dirty-close policy. The Store answers which
// drawers are open: an ordered stack of instances where each later instance
// sits on top of the previous one. The two are independent. Opening a type
// that is not registered still occupies a stack slot; the Renderer logs the
// problem and renders nothing for that slot.
//
// # Closing
//
// Closing an instance removes it and every instance stacked above it. A
// close request on a dirty instance asks a Confirmer first unless the
// definition opts out; a declined request leaves the stack untouched.
// ForceClose skips the check.
//
//	Open -> CloseRequested -> Confirmed -> Removed
//	                       -> Declined  -> Open
//	Open -> ForceClosed -> Removed
//
// # Typed payloads
//
// The stack stores payloads as Payload maps. Kind binds a type key to a
// payload struct and converts in both directions:
//
//	var Product = drawer.NewKind[ProductPayload]("product")
//
//	id, err := Product.Open(store, ProductPayload{EntityID: "1"})
//	p, err := Product.Payload(drawer.MustFromContext(ctx))
package drawer
