package platform

import (
	"context"
	"sync"

	"github.com/justyntemme/dragdrop/internal/debug"
)

// Listener is a channel-fed OS source. Glue code that receives drag callbacks on its own
// thread pushes RawEvents into Events; the listener goroutine dispatches them one at a time.
type Listener struct {
	events chan RawEvent
	wg     sync.WaitGroup
}

// NewListener returns a listener whose queue holds buf events.
func NewListener(buf int) *Listener {
	return &Listener{events: make(chan RawEvent, buf)}
}

// Events is where raw notifications are sent.
func (l *Listener) Events() chan<- RawEvent {
	return l.events
}

// Start dispatches events to t on a background goroutine until ctx is done.
// Calling it twice starts two consumers; call it once.
func (l *Listener) Start(ctx context.Context, t Target) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		debug.Log(debug.PLATFORM, "listener started")
		for {
			select {
			case <-ctx.Done():
				debug.Log(debug.PLATFORM, "listener stopped: %v", ctx.Err())
				return
			case ev := <-l.events:
				Deliver(t, ev)
			}
		}
	}()
}

// Wait blocks until every goroutine started by Start has returned.
func (l *Listener) Wait() {
	l.wg.Wait()
}
