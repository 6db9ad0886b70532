package dragdrop

import (
	"strings"
	"sync"
)

// DropEffect is the cursor feedback reported back to the OS drag source.
// Values match the OLE DROPEFFECT constants bit for bit.
type DropEffect uint32

const (
	EffectNone   DropEffect = 0
	EffectCopy   DropEffect = 1
	EffectMove   DropEffect = 2
	EffectLink   DropEffect = 4
	EffectScroll DropEffect = 0x80000000
)

func (e DropEffect) String() string {
	switch e {
	case EffectNone:
		return "NONE"
	case EffectCopy:
		return "COPY"
	case EffectMove:
		return "MOVE"
	case EffectLink:
		return "LINK"
	case EffectScroll:
		return "SCROLL"
	}
	return "UNKNOWN"
}

// KeyState is the set of modifier keys and mouse buttons held during a drag event.
// Values match the Win32 MK_* flags.
type KeyState uint32

const (
	KeyLeft   KeyState = 1
	KeyRight  KeyState = 2
	KeyShift  KeyState = 4
	KeyCtrl   KeyState = 8
	KeyMiddle KeyState = 16
	KeyAlt    KeyState = 32

	keyMask = KeyLeft | KeyRight | KeyShift | KeyCtrl | KeyMiddle | KeyAlt
)

var keyNames = []struct {
	flag KeyState
	name string
}{
	{KeyLeft, "LEFT"},
	{KeyRight, "RIGHT"},
	{KeyShift, "SHIFT"},
	{KeyCtrl, "CTRL"},
	{KeyMiddle, "MIDDLE"},
	{KeyAlt, "ALT"},
}

// KeyStateFromRaw converts a raw OS key-state bitmask, dropping bits this package does not model.
func KeyStateFromRaw(raw uint32) KeyState {
	return KeyState(raw) & keyMask
}

// Has reports whether every bit of flag is set.
func (k KeyState) Has(flag KeyState) bool {
	return flag != 0 && k&flag == flag
}

func (k KeyState) String() string {
	if k == 0 {
		return "NONE"
	}
	var parts []string
	for _, kn := range keyNames {
		if k&kn.flag != 0 {
			parts = append(parts, kn.name)
		}
	}
	return strings.Join(parts, "|")
}

// EffectState holds the current drop effect. The zero value is not usable; call NewEffectState.
type EffectState struct {
	mu     sync.Mutex
	effect DropEffect
}

// NewEffectState returns a cell initialised to EffectMove, the startup assumption that a
// drop will be accepted until a handler says otherwise.
func NewEffectState() *EffectState {
	return &EffectState{effect: EffectMove}
}

// Set stores a new effect.
func (s *EffectState) Set(e DropEffect) {
	s.mu.Lock()
	s.effect = e
	s.mu.Unlock()
}

// Get returns the current effect.
func (s *EffectState) Get() DropEffect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effect
}

// Reset stores EffectNone.
func (s *EffectState) Reset() {
	s.Set(EffectNone)
}
