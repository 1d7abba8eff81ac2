// Package errors provides coded, actionable errors for adminkit.
//
// Every error carries a short code (e.g. "E020") that maps to a registered
// template with a category, a one-line message and a longer explanation.
// Call sites enrich the template with the concrete detail and, where one
// exists, a hint on how to fix the problem.
//
// # Categories
//
//   - usage: API misuse detected at runtime (drawer context outside a drawer)
//   - route: route pattern and module registration problems
//   - drawer: drawer registry and payload problems
//   - load: page module loader failures
//   - config: project configuration file problems
//   - cli: command line problems
//
// # Usage
//
//	err := errors.New("E020").
//	    WithDetail(`pattern "/products/:" has a parameter without a name`).
//	    WithSuggestion("Name every parameter, e.g. /products/:id")
//
//	fmt.Println(err.Format())
//	// ERROR E020: Invalid route pattern
//	//
//	//   pattern "/products/:" has a parameter without a name
//	//
//	//   Hint: Name every parameter, e.g. /products/:id
package errors
