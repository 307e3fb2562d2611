package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Route Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryRoute,
		Message:  "Invalid route options",
		DocURL:   "https://filerouter.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryRoute,
		Message:  "Page file outside the pages root",
		DocURL:   "https://filerouter.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryRoute,
		Message:  "Two page files define the same route",
		DocURL:   "https://filerouter.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryGenerate,
		Message:  "Route module generation failed",
		DocURL:   "https://filerouter.dev/docs/errors/E103",
	},
	"E104": {
		Category: CategoryRoute,
		Message:  "Page file path is not valid UTF-8",
		DocURL:   "https://filerouter.dev/docs/errors/E104",
	},

	// ============================================
	// IO Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryIO,
		Message:  "Page discovery failed",
		DocURL:   "https://filerouter.dev/docs/errors/E110",
	},
	"E111": {
		Category: CategoryIO,
		Message:  "Publishing the route module failed",
		DocURL:   "https://filerouter.dev/docs/errors/E111",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		DocURL:   "https://filerouter.dev/docs/errors/E120",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		DocURL:   "https://filerouter.dev/docs/errors/E122",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E141": {
		Category: CategoryCLI,
		Message:  "Configuration file not found",
		DocURL:   "https://filerouter.dev/docs/errors/E141",
	},
	"E146": {
		Category: CategoryCLI,
		Message:  "File already exists",
		DocURL:   "https://filerouter.dev/docs/errors/E146",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
