package dragdrop

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	trace "github.com/justyntemme/dragdrop/internal/debug"
)

// Phase names one of the four drag lifecycle notifications.
type Phase int

const (
	PhaseEnter Phase = iota
	PhaseOver
	PhaseLeave
	PhaseDrop
)

func (p Phase) String() string {
	switch p {
	case PhaseEnter:
		return "DragEnter"
	case PhaseOver:
		return "DragOver"
	case PhaseLeave:
		return "DragLeave"
	case PhaseDrop:
		return "Drop"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Outcome describes one finished notification.
type Outcome struct {
	Phase   Phase
	Handled bool
	// HandledBy is the dispatch position of the subscriber that consumed the event, or -1.
	HandledBy int
	// Visited counts subscribers that were called, including ones that panicked.
	Visited  int
	Failures int
	Effect   DropEffect
	Payload  Payload
	Keys     KeyState
	At       time.Time
}

// Observer is told about every notification after dispatch completes. It runs on the
// dispatching goroutine and must not block.
type Observer func(Outcome)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used to report subscriber failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithObserver installs an Observer.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// WithRegistry makes the dispatcher use an existing registry.
func WithRegistry(r *Registry) Option {
	return func(d *Dispatcher) { d.reg = r }
}

// WithEffectState makes the dispatcher use an existing drop effect cell.
func WithEffectState(s *EffectState) Option {
	return func(d *Dispatcher) { d.effect = s }
}

// Dispatcher broadcasts drag notifications to subscribers in subscription order. The first
// subscriber returning true wins; if none does, the drop effect is forced to EffectNone.
//
// Calls may come from any goroutine. A panicking subscriber is logged and skipped.
type Dispatcher struct {
	reg      *Registry
	effect   *EffectState
	log      *slog.Logger
	observer Observer

	mu      sync.Mutex
	session Session
}

// New returns a dispatcher with an empty registry and the drop effect set to EffectMove.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	if d.reg == nil {
		d.reg = NewRegistry()
	}
	if d.effect == nil {
		d.effect = NewEffectState()
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	return d
}

// Registry returns the subscriber registry.
func (d *Dispatcher) Registry() *Registry { return d.reg }

// Subscribe registers s at the end of the dispatch order.
func (d *Dispatcher) Subscribe(s Subscriber) *Subscription { return d.reg.Subscribe(s) }

// Unsubscribe removes the entry for tag, if any.
func (d *Dispatcher) Unsubscribe(tag Tag) { d.reg.Unsubscribe(tag) }

// Effect returns the current drop effect.
func (d *Dispatcher) Effect() DropEffect { return d.effect.Get() }

// SetEffect stores the drop effect. Subscribers call this before returning true.
func (d *Dispatcher) SetEffect(e DropEffect) { d.effect.Set(e) }

// DragEnter notifies subscribers that a drag entered the target.
func (d *Dispatcher) DragEnter(p Payload, keys KeyState) DropEffect {
	d.track(PhaseEnter, p)
	return d.dispatch(PhaseEnter, p, keys, func(s Subscriber) bool { return s.DragEnter(p, keys) })
}

// DragOver notifies subscribers that the drag moved over the target.
func (d *Dispatcher) DragOver(keys KeyState) DropEffect {
	p := d.track(PhaseOver, Payload{})
	return d.dispatch(PhaseOver, p, keys, func(s Subscriber) bool { return s.DragOver(keys) })
}

// DragLeave notifies subscribers that the drag left without dropping.
func (d *Dispatcher) DragLeave() DropEffect {
	p := d.track(PhaseLeave, Payload{})
	return d.dispatch(PhaseLeave, p, 0, func(s Subscriber) bool { return s.DragLeave() })
}

// Drop notifies subscribers that the payload was released over the target.
func (d *Dispatcher) Drop(p Payload, keys KeyState) DropEffect {
	d.track(PhaseDrop, p)
	return d.dispatch(PhaseDrop, p, keys, func(s Subscriber) bool { return s.Drop(p, keys) })
}

func (d *Dispatcher) dispatch(phase Phase, p Payload, keys KeyState, call func(Subscriber) bool) DropEffect {
	d.mu.Lock()
	log, observer := d.log, d.observer
	d.mu.Unlock()

	out := Outcome{Phase: phase, HandledBy: -1, Payload: p, Keys: keys}

	for i, s := range d.reg.Snapshot() {
		out.Visited++
		handled, err := d.safeCall(s, call)
		if err != nil {
			out.Failures++
			log.Error("drag-and-drop subscriber failed",
				"phase", phase.String(), "position", i, "subscriber", fmt.Sprintf("%T", s), "err", err)
			continue
		}
		if handled {
			out.Handled = true
			out.HandledBy = i
			break
		}
	}

	if !out.Handled {
		d.effect.Reset()
	}
	out.Effect = d.effect.Get()
	out.At = time.Now()

	trace.Log(trace.DND, "%s: handled=%v by=%d visited=%d failures=%d effect=%s",
		phase, out.Handled, out.HandledBy, out.Visited, out.Failures, out.Effect)

	if observer != nil {
		notifyObserver(log, observer, out)
	}
	return out.Effect
}

// notifyObserver keeps an observer panic from reaching the caller, which may be an OS callback.
func notifyObserver(log *slog.Logger, observer Observer, out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("drag-and-drop observer failed",
				"phase", out.Phase.String(), "err", fmt.Errorf("panic: %v\n%s", r, debug.Stack()))
		}
	}()
	observer(out)
}

// safeCall runs one subscriber, turning a panic into an error that carries the stack.
func (d *Dispatcher) safeCall(s Subscriber, call func(Subscriber) bool) (handled bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
			handled = false
		}
	}()
	return call(s), nil
}
