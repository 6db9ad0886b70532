//go:build debug

// Package debug provides categorized trace logging for the drag-and-drop pipeline.
// Build with -tags debug to enable it.
package debug

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Enabled indicates whether trace logging is compiled in
const Enabled = true

// Category represents a trace logging category
type Category string

const (
	DND      Category = "DND"      // Dispatch outcomes and session transitions
	REGISTRY Category = "REGISTRY" // Subscribe / unsubscribe
	PLATFORM Category = "PLATFORM" // OS listener bootstrap and raw event translation
	STORE    Category = "STORE"    // Journal database
	CONFIG   Category = "CONFIG"   // Config load, save, reload
	APP      Category = "APP"      // Demo window

	// Very chatty: every COM call from the OS
	OLE Category = "OLE"
)

var (
	enabledCategories = map[Category]bool{
		DND:      true,
		REGISTRY: true,
		PLATFORM: true,
		STORE:    true,
		CONFIG:   true,
		APP:      true,
		OLE:      false,
	}
	categoryMu sync.RWMutex

	logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
)

func init() {
	// DRAGDROP_DEBUG=all, none, or a list such as DND,PLATFORM
	if env := os.Getenv("DRAGDROP_DEBUG"); env != "" {
		applyEnv(env)
	}
}

func applyEnv(env string) {
	categoryMu.Lock()
	defer categoryMu.Unlock()

	env = strings.ToUpper(env)
	switch env {
	case "ALL":
		for cat := range enabledCategories {
			enabledCategories[cat] = true
		}
	case "NONE":
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
	default:
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
		for _, cat := range strings.Split(env, ",") {
			enabledCategories[Category(strings.TrimSpace(cat))] = true
		}
	}
}

// Log logs a trace message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	categoryMu.RLock()
	enabled := enabledCategories[cat]
	categoryMu.RUnlock()

	if !enabled {
		return
	}
	logger.Printf("[%s] %s", cat, fmt.Sprintf(format, args...))
}

// Enable enables a category
func Enable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = true
	categoryMu.Unlock()
}

// Disable disables a category
func Disable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = false
	categoryMu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	return enabledCategories[cat]
}

// EnableAll enables every category including OLE
func EnableAll() {
	categoryMu.Lock()
	for cat := range enabledCategories {
		enabledCategories[cat] = true
	}
	categoryMu.Unlock()
}

// DisableAll disables every category
func DisableAll() {
	categoryMu.Lock()
	for cat := range enabledCategories {
		enabledCategories[cat] = false
	}
	categoryMu.Unlock()
}
