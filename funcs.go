package dragdrop

import "sync"

// FuncSubscriber is a Subscriber whose four handlers are plain functions that can be
// swapped at any time. A nil handler reports "not handled".
type FuncSubscriber struct {
	mu        sync.RWMutex
	dragEnter func(Payload, KeyState) bool
	dragOver  func(KeyState) bool
	dragLeave func() bool
	drop      func(Payload, KeyState) bool
}

// SetDragEnter replaces the DragEnter handler. nil clears it.
func (f *FuncSubscriber) SetDragEnter(fn func(Payload, KeyState) bool) {
	f.mu.Lock()
	f.dragEnter = fn
	f.mu.Unlock()
}

// SetDragOver replaces the DragOver handler. nil clears it.
func (f *FuncSubscriber) SetDragOver(fn func(KeyState) bool) {
	f.mu.Lock()
	f.dragOver = fn
	f.mu.Unlock()
}

// SetDragLeave replaces the DragLeave handler. nil clears it.
func (f *FuncSubscriber) SetDragLeave(fn func() bool) {
	f.mu.Lock()
	f.dragLeave = fn
	f.mu.Unlock()
}

// SetDrop replaces the Drop handler. nil clears it.
func (f *FuncSubscriber) SetDrop(fn func(Payload, KeyState) bool) {
	f.mu.Lock()
	f.drop = fn
	f.mu.Unlock()
}

func (f *FuncSubscriber) DragEnter(p Payload, keys KeyState) bool {
	f.mu.RLock()
	fn := f.dragEnter
	f.mu.RUnlock()
	return fn != nil && fn(p, keys)
}

func (f *FuncSubscriber) DragOver(keys KeyState) bool {
	f.mu.RLock()
	fn := f.dragOver
	f.mu.RUnlock()
	return fn != nil && fn(keys)
}

func (f *FuncSubscriber) DragLeave() bool {
	f.mu.RLock()
	fn := f.dragLeave
	f.mu.RUnlock()
	return fn != nil && fn()
}

func (f *FuncSubscriber) Drop(p Payload, keys KeyState) bool {
	f.mu.RLock()
	fn := f.drop
	f.mu.RUnlock()
	return fn != nil && fn(p, keys)
}
