// Package platform connects OS drag-and-drop sources to a dispatcher. It converts raw
// OS key flags and data into dragdrop values and starts listeners off the UI goroutine.
package platform

import (
	"errors"

	"github.com/justyntemme/dragdrop"
	"github.com/justyntemme/dragdrop/internal/debug"
)

// ErrUnsupported is returned by Initialize where no native source exists.
var ErrUnsupported = errors.New("platform: native drag-and-drop is not supported on this platform")

// Kind is the lifecycle notification a RawEvent carries.
type Kind int

const (
	KindEnter Kind = iota
	KindOver
	KindLeave
	KindDrop
)

// RawEvent is a notification as the OS hands it over: a key-state bitmask and whatever
// data formats the drag carried.
type RawEvent struct {
	Kind     Kind
	KeyState uint32
	Text     *string
	Paths    []string

	// Reply, when set, receives the drop effect after dispatch.
	Reply chan<- dragdrop.DropEffect
}

// Target is what the OS source feeds. *dragdrop.Dispatcher implements it.
type Target interface {
	DragEnter(p dragdrop.Payload, keys dragdrop.KeyState) dragdrop.DropEffect
	DragOver(keys dragdrop.KeyState) dragdrop.DropEffect
	DragLeave() dragdrop.DropEffect
	Drop(p dragdrop.Payload, keys dragdrop.KeyState) dragdrop.DropEffect
}

var _ Target = (*dragdrop.Dispatcher)(nil)

// Translate turns a raw event into a payload and key state. File paths win over text;
// an empty path list with no text is the absent payload.
func Translate(ev RawEvent) (dragdrop.Payload, dragdrop.KeyState) {
	keys := dragdrop.KeyStateFromRaw(ev.KeyState)
	if p, err := dragdrop.FilesPayload(ev.Paths); err == nil {
		return p, keys
	}
	if ev.Text != nil {
		return dragdrop.TextPayload(*ev.Text), keys
	}
	return dragdrop.NoPayload(), keys
}

// Deliver routes ev to the matching entry point of t and returns the resulting effect.
func Deliver(t Target, ev RawEvent) dragdrop.DropEffect {
	payload, keys := Translate(ev)
	var effect dragdrop.DropEffect
	switch ev.Kind {
	case KindEnter:
		effect = t.DragEnter(payload, keys)
	case KindOver:
		effect = t.DragOver(keys)
	case KindLeave:
		effect = t.DragLeave()
	case KindDrop:
		effect = t.Drop(payload, keys)
	default:
		debug.Log(debug.PLATFORM, "ignoring raw event of unknown kind %d", ev.Kind)
		effect = dragdrop.EffectNone
	}
	if ev.Reply != nil {
		ev.Reply <- effect
	}
	return effect
}
