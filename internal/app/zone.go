package app

import (
	"sync"
	"time"

	"github.com/justyntemme/dragdrop"
	"github.com/justyntemme/dragdrop/internal/config"
	"github.com/justyntemme/dragdrop/internal/debug"
)

// effectSetter is the part of the dispatcher the drop zone needs.
type effectSetter interface {
	SetEffect(dragdrop.DropEffect)
}

// dropZone is the demo window's subscriber. It accepts the payload kinds enabled in the
// config and picks the effect from the held modifiers, the way file managers do.
type dropZone struct {
	effects effectSetter
	notify  func()

	mu        sync.Mutex
	accept    config.EffectsConfig
	hovering  bool
	accepting bool
	keys      dragdrop.KeyState
	current   dragdrop.Payload
	lastDrop  dragdrop.Payload
	lastAt    time.Time
	lastEff   dragdrop.DropEffect
	dropCount int
}

func newDropZone(effects effectSetter, accept config.EffectsConfig, notify func()) *dropZone {
	if notify == nil {
		notify = func() {}
	}
	return &dropZone{effects: effects, accept: accept, notify: notify}
}

// effectFor maps modifiers to an effect: SHIFT moves, ALT or CTRL+SHIFT links, else copy.
func effectFor(keys dragdrop.KeyState) dragdrop.DropEffect {
	switch {
	case keys.Has(dragdrop.KeyAlt), keys.Has(dragdrop.KeyCtrl | dragdrop.KeyShift):
		return dragdrop.EffectLink
	case keys.Has(dragdrop.KeyShift):
		return dragdrop.EffectMove
	default:
		return dragdrop.EffectCopy
	}
}

func (z *dropZone) accepts(p dragdrop.Payload) bool {
	switch p.Kind() {
	case dragdrop.PayloadFiles:
		return z.accept.AcceptFiles
	case dragdrop.PayloadText:
		return z.accept.AcceptText
	}
	return false
}

// SetAccept applies a new accept policy, e.g. after a config reload.
func (z *dropZone) SetAccept(a config.EffectsConfig) {
	z.mu.Lock()
	z.accept = a
	z.mu.Unlock()
}

func (z *dropZone) DragEnter(p dragdrop.Payload, keys dragdrop.KeyState) bool {
	z.mu.Lock()
	z.hovering = true
	z.current = p
	z.keys = keys
	z.accepting = z.accepts(p)
	ok := z.accepting
	z.mu.Unlock()
	defer z.notify()

	debug.Log(debug.APP, "zone enter payload=%s keys=%s accepting=%v", p, keys, ok)
	if !ok {
		return false
	}
	z.effects.SetEffect(effectFor(keys))
	return true
}

func (z *dropZone) DragOver(keys dragdrop.KeyState) bool {
	z.mu.Lock()
	changed := z.keys != keys
	z.keys = keys
	ok := z.accepting
	z.mu.Unlock()
	if changed {
		z.notify()
	}

	if !ok {
		return false
	}
	z.effects.SetEffect(effectFor(keys))
	return true
}

// DragLeave is not consumed so other subscribers also see the session end.
func (z *dropZone) DragLeave() bool {
	z.mu.Lock()
	z.hovering = false
	z.accepting = false
	z.current = dragdrop.Payload{}
	z.mu.Unlock()
	z.notify()
	return false
}

func (z *dropZone) Drop(p dragdrop.Payload, keys dragdrop.KeyState) bool {
	z.mu.Lock()
	z.hovering = false
	z.accepting = false
	z.current = dragdrop.Payload{}
	ok := z.accepts(p)
	var effect dragdrop.DropEffect
	if ok {
		effect = effectFor(keys)
		z.lastDrop = p
		z.lastAt = time.Now()
		z.lastEff = effect
		z.dropCount++
	}
	z.mu.Unlock()
	defer z.notify()

	if !ok {
		return false
	}
	z.effects.SetEffect(effect)
	return true
}

// zoneView is what the window renders.
type zoneView struct {
	Hovering  bool
	Accepting bool
	Keys      dragdrop.KeyState
	Current   dragdrop.Payload
	LastDrop  dragdrop.Payload
	LastAt    time.Time
	LastEff   dragdrop.DropEffect
	Drops     int
}

func (z *dropZone) view() zoneView {
	z.mu.Lock()
	defer z.mu.Unlock()
	return zoneView{
		Hovering:  z.hovering,
		Accepting: z.accepting,
		Keys:      z.keys,
		Current:   z.current,
		LastDrop:  z.lastDrop,
		LastAt:    z.lastAt,
		LastEff:   z.lastEff,
		Drops:     z.dropCount,
	}
}
