package platform

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/justyntemme/dragdrop"
)

func strPtr(s string) *string { return &s }

func TestTranslate(t *testing.T) {
	testCases := []struct {
		name    string
		ev      RawEvent
		kind    dragdrop.PayloadKind
		keys    dragdrop.KeyState
		itemLen int
	}{
		{"paths", RawEvent{KeyState: 0x01, Paths: []string{"/a", "/b"}}, dragdrop.PayloadFiles, dragdrop.KeyLeft, 2},
		{"paths win over text", RawEvent{Paths: []string{"/a"}, Text: strPtr("x")}, dragdrop.PayloadFiles, 0, 1},
		{"text", RawEvent{KeyState: 0x24, Text: strPtr("hello")}, dragdrop.PayloadText, dragdrop.KeyShift | dragdrop.KeyAlt, 1},
		{"empty path list falls back to text", RawEvent{Paths: []string{}, Text: strPtr("")}, dragdrop.PayloadText, 0, 1},
		{"absent", RawEvent{KeyState: 0xFFFF_0000}, dragdrop.PayloadNone, 0, 0},
	}

	for _, tc := range testCases {
		p, keys := Translate(tc.ev)
		if p.Kind() != tc.kind {
			t.Errorf("%s: kind expected %s, got %s", tc.name, tc.kind, p.Kind())
		}
		if keys != tc.keys {
			t.Errorf("%s: keys expected %s, got %s", tc.name, tc.keys, keys)
		}
		if p.Len() != tc.itemLen {
			t.Errorf("%s: len expected %d, got %d", tc.name, tc.itemLen, p.Len())
		}
	}
}

func newDispatcher() *dragdrop.Dispatcher {
	return dragdrop.New(dragdrop.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestDeliver_RoutesByKind(t *testing.T) {
	d := newDispatcher()
	var seen []string
	f := &dragdrop.FuncSubscriber{}
	f.SetDragEnter(func(p dragdrop.Payload, _ dragdrop.KeyState) bool {
		seen = append(seen, "enter:"+p.Kind().String())
		d.SetEffect(dragdrop.EffectCopy)
		return true
	})
	f.SetDragOver(func(k dragdrop.KeyState) bool {
		seen = append(seen, "over:"+k.String())
		return false
	})
	f.SetDragLeave(func() bool { seen = append(seen, "leave"); return false })
	f.SetDrop(func(p dragdrop.Payload, _ dragdrop.KeyState) bool {
		paths, _ := p.Paths()
		seen = append(seen, "drop:"+paths[0])
		d.SetEffect(dragdrop.EffectLink)
		return true
	})
	d.Subscribe(f)

	if got := Deliver(d, RawEvent{Kind: KindEnter, Paths: []string{"/x"}}); got != dragdrop.EffectCopy {
		t.Errorf("enter effect: expected COPY, got %s", got)
	}
	if got := Deliver(d, RawEvent{Kind: KindOver, KeyState: 0x09}); got != dragdrop.EffectNone {
		t.Errorf("over effect: expected NONE, got %s", got)
	}
	Deliver(d, RawEvent{Kind: KindLeave})
	if got := Deliver(d, RawEvent{Kind: KindDrop, Paths: []string{"/y"}}); got != dragdrop.EffectLink {
		t.Errorf("drop effect: expected LINK, got %s", got)
	}
	if got := Deliver(d, RawEvent{Kind: Kind(42)}); got != dragdrop.EffectNone {
		t.Errorf("unknown kind: expected NONE, got %s", got)
	}

	expected := []string{"enter:files", "over:LEFT|CTRL", "leave", "drop:/y"}
	if len(seen) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("call %d: expected %q, got %q", i, expected[i], seen[i])
		}
	}
}

func TestListener_DeliversInOrderAndStops(t *testing.T) {
	d := newDispatcher()
	var phases []string
	f := &dragdrop.FuncSubscriber{}
	f.SetDragEnter(func(dragdrop.Payload, dragdrop.KeyState) bool { phases = append(phases, "enter"); return false })
	f.SetDragOver(func(dragdrop.KeyState) bool { phases = append(phases, "over"); return false })
	f.SetDrop(func(dragdrop.Payload, dragdrop.KeyState) bool {
		phases = append(phases, "drop")
		d.SetEffect(dragdrop.EffectCopy)
		return true
	})
	d.Subscribe(f)

	ctx, cancel := context.WithCancel(context.Background())
	l := NewListener(8)
	l.Start(ctx, d)

	reply := make(chan dragdrop.DropEffect, 1)
	l.Events() <- RawEvent{Kind: KindEnter, Text: strPtr("t")}
	l.Events() <- RawEvent{Kind: KindOver}
	l.Events() <- RawEvent{Kind: KindDrop, Text: strPtr("t"), Reply: reply}

	select {
	case effect := <-reply:
		if effect != dragdrop.EffectCopy {
			t.Errorf("drop reply: expected COPY, got %s", effect)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for drop reply")
	}

	cancel()
	l.Wait()

	expected := []string{"enter", "over", "drop"}
	if len(phases) != 3 || phases[0] != expected[0] || phases[1] != expected[1] || phases[2] != expected[2] {
		t.Errorf("expected %v, got %v", expected, phases)
	}
}

func TestDeliver_DefaultDispatcherReachesFunctionHandlers(t *testing.T) {
	dragdrop.Configure(dragdrop.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(func() {
		dragdrop.SetDrop(nil)
		dragdrop.SetDropEffect(dragdrop.EffectMove)
		dragdrop.Configure(dragdrop.WithLogger(nil))
	})

	var dropped []string
	dragdrop.SetDrop(func(p dragdrop.Payload, keys dragdrop.KeyState) bool {
		dropped, _ = p.Paths()
		dragdrop.SetDropEffect(dragdrop.EffectCopy)
		return keys.Has(dragdrop.KeyLeft)
	})

	got := Deliver(dragdrop.Default(), RawEvent{Kind: KindDrop, KeyState: 0x01, Paths: []string{`C:\a.txt`}})
	if got != dragdrop.EffectCopy {
		t.Errorf("drop effect: expected COPY, got %s", got)
	}
	if len(dropped) != 1 || dropped[0] != `C:\a.txt` {
		t.Errorf("handler saw %v", dropped)
	}
	if dragdrop.GetDropEffect() != dragdrop.EffectCopy {
		t.Errorf("default effect: expected COPY, got %s", dragdrop.GetDropEffect())
	}
}
