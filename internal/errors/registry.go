package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Usage Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryUsage,
		Message:  "Drawer context used outside a drawer",
		Detail:   "Drawer helpers may only be called from a component rendered by the drawer renderer.",
	},
	"E002": {
		Category: CategoryUsage,
		Message:  "Drawer instance not found",
		Detail:   "No open drawer has the given id. It may already have been closed.",
	},

	// ============================================
	// Route Errors (E020-E029)
	// ============================================

	"E020": {
		Category: CategoryRoute,
		Message:  "Invalid route pattern",
		Detail:   "The route pattern could not be compiled.",
	},
	"E021": {
		Category: CategoryRoute,
		Message:  "Invalid module config",
		Detail:   "A module registration is missing a required field.",
	},
	"E022": {
		Category: CategoryRoute,
		Message:  "Page not found",
		Detail:   "No registered module matches the requested path.",
	},

	// ============================================
	// Load Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategoryLoad,
		Message:  "Module loader failed",
		Detail:   "The lazy loader for a page or drawer component returned an error.",
	},
	"E031": {
		Category: CategoryDrawer,
		Message:  "Drawer payload codec failed",
		Detail:   "A drawer payload could not be converted to or from its typed form.",
	},
	"E032": {
		Category: CategoryDrawer,
		Message:  "Drawer type not registered",
		Detail:   "The drawer type has no definition in the drawer registry.",
	},

	// ============================================
	// Config Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No adminkit.json or adminkit.yaml was found in the project directory.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or malformed.",
	},

	// ============================================
	// CLI Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
}

// Codes returns all registered error codes in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
