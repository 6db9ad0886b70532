package dragdrop

import "log/slog"

// The process-wide dispatcher. Its first subscriber is the function adapter, so handlers
// set with SetDragEnter and friends always run before anything subscribed later.
var (
	std      *Dispatcher
	stdFuncs = &FuncSubscriber{}
)

func init() {
	std = New()
	std.Subscribe(stdFuncs)
}

// Default returns the process-wide dispatcher. Hosts pass it to the platform bootstrap so
// handlers set with SetDrop and friends see native drags.
func Default() *Dispatcher { return std }

// Configure applies WithLogger and WithObserver to the default dispatcher. Its registry and
// drop effect cell are fixed, so WithRegistry and WithEffectState are ignored.
// WithObserver(nil) removes the observer; WithLogger(nil) restores slog.Default.
func Configure(opts ...Option) {
	std.mu.Lock()
	defer std.mu.Unlock()
	c := &Dispatcher{log: std.log, observer: std.observer}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	std.log, std.observer = c.log, c.observer
}

// Subscribe registers s with the default dispatcher.
func Subscribe(s Subscriber) *Subscription { return std.Subscribe(s) }

// SetDragEnter rebinds the default function adapter's DragEnter handler. nil clears it.
func SetDragEnter(fn func(Payload, KeyState) bool) { stdFuncs.SetDragEnter(fn) }

// SetDragOver rebinds the default function adapter's DragOver handler. nil clears it.
func SetDragOver(fn func(KeyState) bool) { stdFuncs.SetDragOver(fn) }

// SetDragLeave rebinds the default function adapter's DragLeave handler. nil clears it.
func SetDragLeave(fn func() bool) { stdFuncs.SetDragLeave(fn) }

// SetDrop rebinds the default function adapter's Drop handler. nil clears it.
func SetDrop(fn func(Payload, KeyState) bool) { stdFuncs.SetDrop(fn) }

// SetDropEffect stores the process-wide drop effect.
func SetDropEffect(e DropEffect) { std.SetEffect(e) }

// ResetDropEffect stores EffectNone.
func ResetDropEffect() { std.effect.Reset() }

// GetDropEffect returns the process-wide drop effect. It is EffectMove until something changes it.
func GetDropEffect() DropEffect { return std.Effect() }
