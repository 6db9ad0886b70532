package dragdrop

import (
	"iter"
	"sync"

	"github.com/google/uuid"

	"github.com/justyntemme/dragdrop/internal/debug"
)

// Tag identifies one registry entry. It has no meaning outside the registry that issued it.
type Tag struct {
	id uuid.UUID
}

func (t Tag) String() string { return t.id.String() }

// IsZero reports whether t was never issued by a registry.
func (t Tag) IsZero() bool { return t.id == uuid.Nil }

type entry struct {
	tag Tag
	sub Subscriber
}

// Registry keeps subscribers in subscription order. Dispatch order is that order.
// The lock is held only while mutating or copying, never while a subscriber runs.
type Registry struct {
	mu      sync.Mutex
	entries []entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Subscribe appends s to the dispatch order under a fresh tag.
// Subscribing the same instance twice yields two independent entries; use
// Subscription.Renew to move an existing subscription instead.
func (r *Registry) Subscribe(s Subscriber) *Subscription {
	return &Subscription{reg: r, sub: s, tag: r.add(s)}
}

func (r *Registry) add(s Subscriber) Tag {
	tag := Tag{id: uuid.New()}
	r.mu.Lock()
	r.entries = append(r.entries, entry{tag: tag, sub: s})
	n := len(r.entries)
	r.mu.Unlock()
	debug.Log(debug.REGISTRY, "subscribe %s (%d active)", tag, n)
	return tag
}

// Unsubscribe removes the entry for tag. Unknown tags are ignored.
func (r *Registry) Unsubscribe(tag Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.tag == tag {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			debug.Log(debug.REGISTRY, "unsubscribe %s (%d active)", tag, len(r.entries))
			return
		}
	}
}

// Contains reports whether tag is active.
func (r *Registry) Contains(tag Tag) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.tag == tag {
			return true
		}
	}
	return false
}

// Len returns the number of active entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Snapshot copies the current subscribers in dispatch order.
func (r *Registry) Snapshot() []Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs := make([]Subscriber, len(r.entries))
	for i, e := range r.entries {
		subs[i] = e.sub
	}
	return subs
}

// All yields subscribers in dispatch order. Each range takes its own snapshot, so the
// sequence can be reused and subscribers may (un)subscribe while it is being consumed.
func (r *Registry) All() iter.Seq[Subscriber] {
	return func(yield func(Subscriber) bool) {
		for _, s := range r.Snapshot() {
			if !yield(s) {
				return
			}
		}
	}
}

// Subscription is the handle returned by Subscribe. Close it when the subscriber goes away,
// typically with defer.
type Subscription struct {
	reg *Registry
	sub Subscriber

	mu     sync.Mutex
	tag    Tag
	closed bool
}

// Tag returns the currently active tag.
func (s *Subscription) Tag() Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tag
}

// Subscriber returns the subscribed instance.
func (s *Subscription) Subscriber() Subscriber { return s.sub }

// Close unsubscribes. Calling it more than once is harmless.
func (s *Subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.reg.Unsubscribe(s.tag)
	return nil
}

// Renew drops the current tag and subscribes the same instance again under a fresh tag,
// which moves it to the end of the dispatch order. A closed subscription becomes active again.
func (s *Subscription) Renew() Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.reg.Unsubscribe(s.tag)
	}
	s.tag = s.reg.add(s.sub)
	s.closed = false
	return s.tag
}
