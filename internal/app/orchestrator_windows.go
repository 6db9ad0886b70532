//go:build windows

package app

import (
	"gioui.org/app"

	"github.com/justyntemme/dragdrop/internal/debug"
)

// platformStartup waits for Win32ViewEvent; registration needs the HWND.
func (o *Orchestrator) platformStartup() {}

// handlePlatformEvent handles Windows-specific view events
func (o *Orchestrator) handlePlatformEvent(e any) bool {
	switch evt := e.(type) {
	case app.Win32ViewEvent:
		debug.Log(debug.APP, "Win32ViewEvent received: Valid=%v HWND=%d", evt.Valid(), evt.HWND)
		if evt.Valid() {
			o.startNative(evt.HWND)
		}
		return true
	}
	return false
}
