package dragdrop

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probe answers every notification with a fixed result and counts calls.
type probe struct {
	name    string
	result  bool
	panics  bool
	onCall  func()
	mu      sync.Mutex
	calls   map[Phase]int
	payload Payload
	keys    KeyState
}

func newProbe(name string, result bool) *probe {
	return &probe{name: name, result: result, calls: make(map[Phase]int)}
}

func (p *probe) hit(phase Phase, pl *Payload, keys KeyState) bool {
	p.mu.Lock()
	p.calls[phase]++
	if pl != nil {
		p.payload = *pl
	}
	p.keys = keys
	p.mu.Unlock()
	if p.onCall != nil {
		p.onCall()
	}
	if p.panics {
		panic(p.name + " exploded")
	}
	return p.result
}

func (p *probe) count(phase Phase) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[phase]
}

func (p *probe) DragEnter(pl Payload, keys KeyState) bool { return p.hit(PhaseEnter, &pl, keys) }
func (p *probe) DragOver(keys KeyState) bool              { return p.hit(PhaseOver, nil, keys) }
func (p *probe) DragLeave() bool                          { return p.hit(PhaseLeave, nil, 0) }
func (p *probe) Drop(pl Payload, keys KeyState) bool      { return p.hit(PhaseDrop, &pl, keys) }

func quietDispatcher(opts ...Option) (*Dispatcher, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return New(append([]Option{WithLogger(logger)}, opts...)...), &buf
}

func notify(d *Dispatcher, phase Phase) DropEffect {
	files, _ := FilesPayload([]string{"/tmp/a.txt"})
	switch phase {
	case PhaseEnter:
		return d.DragEnter(files, KeyLeft)
	case PhaseOver:
		return d.DragOver(KeyLeft)
	case PhaseLeave:
		return d.DragLeave()
	default:
		return d.Drop(files, KeyLeft)
	}
}

var allPhases = []Phase{PhaseEnter, PhaseOver, PhaseLeave, PhaseDrop}

func TestDispatcher_InitialEffectIsMove(t *testing.T) {
	d, _ := quietDispatcher()
	assert.Equal(t, EffectMove, d.Effect())
}

func TestDispatcher_FirstHandledStopsPropagation(t *testing.T) {
	d, _ := quietDispatcher()
	a := newProbe("a", false)
	b := newProbe("b", true)
	c := newProbe("c", true)
	d.Subscribe(a)
	d.Subscribe(b)
	d.Subscribe(c)

	files, err := FilesPayload([]string{"/home/user/report.pdf"})
	require.NoError(t, err)
	d.Drop(files, KeyLeft|KeyCtrl)

	assert.Equal(t, 1, a.count(PhaseDrop))
	assert.Equal(t, 1, b.count(PhaseDrop))
	assert.Equal(t, 0, c.count(PhaseDrop))
	assert.Equal(t, files, b.payload)
	assert.Equal(t, KeyLeft|KeyCtrl, b.keys)
}

func TestDispatcher_NoSubscribersResetsEffect(t *testing.T) {
	for _, phase := range allPhases {
		t.Run(phase.String(), func(t *testing.T) {
			d, _ := quietDispatcher()
			require.Equal(t, EffectMove, d.Effect())
			assert.Equal(t, EffectNone, notify(d, phase))
			assert.Equal(t, EffectNone, d.Effect())
		})
	}
}

func TestDispatcher_FullMissResetsEffect(t *testing.T) {
	for _, phase := range allPhases {
		t.Run(phase.String(), func(t *testing.T) {
			d, _ := quietDispatcher()
			d.SetEffect(EffectLink)
			probes := []*probe{newProbe("a", false), newProbe("b", false), newProbe("c", false)}
			for _, p := range probes {
				d.Subscribe(p)
			}

			assert.Equal(t, EffectNone, notify(d, phase))
			for _, p := range probes {
				assert.Equal(t, 1, p.count(phase), p.name)
			}
		})
	}
}

func TestDispatcher_HandledKeepsSubscriberEffect(t *testing.T) {
	d, _ := quietDispatcher()
	d.Subscribe(newProbe("fallback", false))
	setter := &FuncSubscriber{}
	setter.SetDragOver(func(KeyState) bool {
		d.SetEffect(EffectCopy)
		return true
	})
	d.Subscribe(setter)

	assert.Equal(t, EffectCopy, d.DragOver(KeyLeft))
	assert.Equal(t, EffectCopy, d.Effect())
}

func TestDispatcher_HandledWithoutSettingLeavesEffect(t *testing.T) {
	d, _ := quietDispatcher()
	d.SetEffect(EffectScroll)
	d.Subscribe(newProbe("a", true))

	d.DragLeave()
	assert.Equal(t, EffectScroll, d.Effect())
}

// Subscriber k handles, all before it decline: 1..k run once, the rest never.
func TestDispatcher_VisitsExactlyUpToHandler(t *testing.T) {
	const n = 6
	for k := 1; k <= n; k++ {
		for _, phase := range allPhases {
			t.Run(fmt.Sprintf("k=%d/%s", k, phase), func(t *testing.T) {
				d, _ := quietDispatcher()
				probes := make([]*probe, n)
				for i := range probes {
					probes[i] = newProbe(fmt.Sprint(i+1), i+1 >= k)
					d.Subscribe(probes[i])
				}
				notify(d, phase)
				for i, p := range probes {
					want := 0
					if i+1 <= k {
						want = 1
					}
					assert.Equal(t, want, p.count(phase), "subscriber %d", i+1)
				}
			})
		}
	}
}

func TestDispatcher_PanickingSubscriberIsSkipped(t *testing.T) {
	d, logs := quietDispatcher()
	bad := newProbe("bad", true)
	bad.panics = true
	next := newProbe("next", true)
	d.Subscribe(bad)
	d.Subscribe(next)
	d.SetEffect(EffectCopy)

	require.NotPanics(t, func() { d.DragEnter(TextPayload("hello"), 0) })

	assert.Equal(t, 1, bad.count(PhaseEnter))
	assert.Equal(t, 1, next.count(PhaseEnter))
	assert.Equal(t, EffectCopy, d.Effect())
	assert.Contains(t, logs.String(), "bad exploded")
	assert.Contains(t, logs.String(), "phase=DragEnter")
}

func TestDispatcher_OnlyPanickingSubscribersResetEffect(t *testing.T) {
	d, _ := quietDispatcher()
	bad := newProbe("bad", true)
	bad.panics = true
	d.Subscribe(bad)

	assert.Equal(t, EffectNone, d.Drop(TextPayload("x"), 0))
}

func TestDispatcher_ObserverSeesOutcome(t *testing.T) {
	var got []Outcome
	d, _ := quietDispatcher(WithObserver(func(o Outcome) { got = append(got, o) }))
	bad := newProbe("bad", false)
	bad.panics = true
	d.Subscribe(newProbe("a", false))
	d.Subscribe(bad)
	d.Subscribe(newProbe("c", true))
	d.Subscribe(newProbe("d", true))

	files, _ := FilesPayload([]string{"/x", "/y"})
	d.DragEnter(files, KeyShift)
	d.DragOver(KeyShift)

	require.Len(t, got, 2)
	assert.Equal(t, PhaseEnter, got[0].Phase)
	assert.True(t, got[0].Handled)
	assert.Equal(t, 2, got[0].HandledBy)
	assert.Equal(t, 3, got[0].Visited)
	assert.Equal(t, 1, got[0].Failures)
	assert.Equal(t, KeyShift, got[0].Keys)
	assert.Equal(t, files, got[0].Payload)

	// DragOver carries the session payload.
	assert.Equal(t, PhaseOver, got[1].Phase)
	assert.Equal(t, files, got[1].Payload)
}

func TestDispatcher_SubscriberUnsubscribesItself(t *testing.T) {
	d, _ := quietDispatcher()
	self := newProbe("self", false)
	sub := d.Subscribe(self)
	self.onCall = func() { sub.Close() }
	after := newProbe("after", true)
	d.Subscribe(after)

	d.DragOver(0)
	assert.Equal(t, 1, self.count(PhaseOver))
	assert.Equal(t, 1, after.count(PhaseOver))

	d.DragOver(0)
	assert.Equal(t, 1, self.count(PhaseOver))
	assert.Equal(t, 2, after.count(PhaseOver))
}

func TestDispatcher_ReentrantSubscribeDoesNotDeadlock(t *testing.T) {
	d, _ := quietDispatcher()
	late := newProbe("late", true)
	first := newProbe("first", false)
	first.onCall = func() { d.Subscribe(late) }
	d.Subscribe(first)

	// The snapshot was taken before late joined.
	assert.Equal(t, EffectNone, d.DragOver(0))
	assert.Equal(t, 0, late.count(PhaseOver))
}

func TestDispatcher_ConcurrentMutationAndDispatch(t *testing.T) {
	d, _ := quietDispatcher()
	d.Subscribe(newProbe("anchor", false))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				sub := d.Subscribe(newProbe("tmp", i%2 == 0))
				sub.Close()
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				d.DragOver(KeyLeft)
				_ = d.Effect()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, d.Registry().Len())
}

func TestDispatcher_SessionTracking(t *testing.T) {
	d, _ := quietDispatcher()
	assert.Equal(t, SessionIdle, d.Session().State)

	text := TextPayload("dragged")
	d.DragEnter(text, KeyLeft)
	d.DragOver(KeyLeft)
	d.DragOver(KeyLeft)

	s := d.Session()
	assert.Equal(t, SessionActive, s.State)
	assert.Equal(t, 2, s.Overs)
	assert.Equal(t, text, s.Payload)
	assert.Equal(t, PhaseOver, s.Last)

	d.DragLeave()
	assert.Equal(t, SessionIdle, d.Session().State)
	assert.Equal(t, PhaseLeave, d.Session().Last)

	// Out of order notifications still reach subscribers.
	p := newProbe("p", true)
	d.Subscribe(p)
	d.DragOver(0)
	assert.Equal(t, 1, p.count(PhaseOver))
}

func TestPhase_String(t *testing.T) {
	testCases := []struct {
		phase    Phase
		expected string
	}{
		{PhaseEnter, "DragEnter"},
		{PhaseOver, "DragOver"},
		{PhaseLeave, "DragLeave"},
		{PhaseDrop, "Drop"},
		{Phase(9), "Phase(9)"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.phase.String())
	}
}

func TestDispatcher_PanickingObserverIsContained(t *testing.T) {
	d, logs := quietDispatcher(WithObserver(func(Outcome) { panic("journal gone") }))
	d.Subscribe(newProbe("a", true))
	d.SetEffect(EffectCopy)

	var effect DropEffect
	require.NotPanics(t, func() { effect = d.Drop(TextPayload("x"), KeyLeft) })
	assert.Equal(t, EffectCopy, effect)
	assert.Contains(t, logs.String(), "drag-and-drop observer failed")
	assert.Contains(t, logs.String(), "journal gone")

	// Later notifications still dispatch.
	assert.Equal(t, EffectCopy, d.DragLeave())
	assert.Equal(t, 1, d.Registry().Len())
}
