// Package dragdrop routes operating-system drag-and-drop notifications to in-process
// subscribers.
//
// A Dispatcher receives the four lifecycle notifications (DragEnter, DragOver, DragLeave,
// Drop) from an OS source and offers each one to its subscribers in subscription order.
// The first subscriber that returns true consumes the event. When nobody does, the drop
// effect is set to EffectNone so the OS shows the "no drop" cursor. Subscribers set the
// effect themselves, via Dispatcher.SetEffect or SetDropEffect, before returning true.
//
// For quick wiring without defining a type, the default dispatcher carries a function
// adapter that SetDragEnter, SetDragOver, SetDragLeave and SetDrop rebind in place.
package dragdrop
