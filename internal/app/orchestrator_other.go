//go:build !windows

package app

// platformStartup reports right away that no native source exists here.
func (o *Orchestrator) platformStartup() {
	o.startNative(0)
}

// handlePlatformEvent handles platform-specific view events (no-op on unsupported platforms)
func (o *Orchestrator) handlePlatformEvent(e any) bool {
	return false
}
