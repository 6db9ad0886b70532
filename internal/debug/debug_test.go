//go:build debug

package debug

import "testing"

func TestApplyEnv(t *testing.T) {
	t.Cleanup(func() { applyEnv("ALL"); Disable(OLE) })

	applyEnv("dnd, platform")
	if !IsEnabled(DND) || !IsEnabled(PLATFORM) {
		t.Error("DND and PLATFORM should be enabled")
	}
	if IsEnabled(STORE) || IsEnabled(OLE) {
		t.Error("STORE and OLE should be disabled")
	}

	applyEnv("none")
	if IsEnabled(DND) {
		t.Error("DND should be disabled after none")
	}

	applyEnv("all")
	if !IsEnabled(OLE) {
		t.Error("OLE should be enabled after all")
	}
}
