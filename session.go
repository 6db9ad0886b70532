package dragdrop

import (
	"time"

	trace "github.com/justyntemme/dragdrop/internal/debug"
)

// SessionState is where the dispatcher believes the current drag is.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionActive
)

func (s SessionState) String() string {
	if s == SessionActive {
		return "active"
	}
	return "idle"
}

// Session is a snapshot of the drag in progress: Enter, any number of Over, then Leave or Drop.
type Session struct {
	State   SessionState
	Payload Payload
	Overs   int
	Started time.Time
	// Last is the most recent notification seen, valid once any has arrived.
	Last Phase
}

// Session returns the current session snapshot.
func (d *Dispatcher) Session() Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}

// track advances the session and returns the payload the phase belongs to. Notifications
// that arrive out of order are still dispatched; the OS source is the authority.
func (d *Dispatcher) track(phase Phase, p Payload) Payload {
	d.mu.Lock()
	defer d.mu.Unlock()

	if phase != PhaseEnter && d.session.State == SessionIdle {
		trace.Log(trace.DND, "%s without a preceding DragEnter", phase)
	}

	switch phase {
	case PhaseEnter:
		if d.session.State == SessionActive {
			trace.Log(trace.DND, "DragEnter while a session is active, restarting it")
		}
		d.session = Session{State: SessionActive, Payload: p, Started: time.Now()}
	case PhaseOver:
		d.session.Overs++
		p = d.session.Payload
	case PhaseLeave:
		p = d.session.Payload
		d.session.State = SessionIdle
	case PhaseDrop:
		d.session.State = SessionIdle
		d.session.Payload = p
	}
	d.session.Last = phase
	return p
}
