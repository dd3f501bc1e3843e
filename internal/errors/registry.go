package errors

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Runtime Errors (E101-E119)
	// ============================================

	"E101": {
		Category:   CategoryRuntime,
		Message:    "Element already mounted",
		Suggestion: "Unmount the element before mounting it again, or move it with Append/Insert",
	},
	"E102": {
		Category:   CategoryRuntime,
		Message:    "Element not mounted",
		Suggestion: "Only mounted elements can be unmounted; check IsMounted first",
	},
	"E103": {
		Category:   CategoryRuntime,
		Message:    "Invalid handler signature",
		Suggestion: "Handlers take zero or one parameter, e.g. func() or func(live.ClickEvent)",
	},
	"E104": {
		Category:   CategoryRuntime,
		Message:    "Unsupported child type",
		Suggestion: "Children must be elements, strings, attributes or slices of those",
	},
	"E105": {
		Category:   CategoryRuntime,
		Message:    "No current session",
		Suggestion: "Call this from a handler, a task, or inside Session.Do",
	},
	"E106": {
		Category:   CategoryRuntime,
		Message:    "Cyclic element tree",
		Suggestion: "An element cannot be appended to itself or to one of its descendants",
	},
	"E110": {
		Category: CategoryRuntime,
		Message:  "Message serialization failed",
	},
	"E111": {
		Category: CategoryRuntime,
		Message:  "Session closed",
	},
	"E112": {
		Category:   CategoryRuntime,
		Message:    "Await outside a task",
		Suggestion: "Return a live.Task from the handler and call Await or Sleep inside it",
	},

	// ============================================
	// Protocol Errors (E107-E109)
	// ============================================

	"E107": {
		Category: CategoryProtocol,
		Message:  "Unknown element",
	},
	"E108": {
		Category: CategoryProtocol,
		Message:  "Unsupported event for element",
	},
	"E109": {
		Category: CategoryProtocol,
		Message:  "Malformed message",
	},

	// ============================================
	// Config Errors (E120-E129)
	// ============================================

	"E120": {
		Category:   CategoryConfig,
		Message:    "Failed to read configuration",
		Suggestion: "Check that the file exists and is valid YAML",
	},
	"E121": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Pass --config with the path to mirror.yaml, or run without it to use defaults",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
