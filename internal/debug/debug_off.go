//go:build !debug

// Package debug provides categorized trace logging for the drag-and-drop pipeline.
// This is the no-op version for release builds.
package debug

// Enabled indicates whether trace logging is compiled in
const Enabled = false

// Category represents a trace logging category
type Category string

const (
	DND      Category = "DND"
	REGISTRY Category = "REGISTRY"
	PLATFORM Category = "PLATFORM"
	STORE    Category = "STORE"
	CONFIG   Category = "CONFIG"
	APP      Category = "APP"
	OLE      Category = "OLE"
)

// Log is a no-op in release builds
func Log(cat Category, format string, args ...interface{}) {}

// Enable is a no-op in release builds
func Enable(cat Category) {}

// Disable is a no-op in release builds
func Disable(cat Category) {}

// IsEnabled always returns false in release builds
func IsEnabled(cat Category) bool { return false }

// EnableAll is a no-op in release builds
func EnableAll() {}

// DisableAll is a no-op in release builds
func DisableAll() {}
