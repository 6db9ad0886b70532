package dragdrop

// Subscriber receives drag-and-drop notifications. Each method returns true when the
// subscriber consumed the event, which stops delivery to subscribers registered after it.
//
// Implementations are compared by identity, so register pointers. Embed BaseSubscriber to
// get "not handled" behaviour for the methods you don't care about.
type Subscriber interface {
	DragEnter(p Payload, keys KeyState) bool
	DragOver(keys KeyState) bool
	DragLeave() bool
	Drop(p Payload, keys KeyState) bool
}

// BaseSubscriber implements Subscriber with every method reporting "not handled".
type BaseSubscriber struct{}

func (BaseSubscriber) DragEnter(Payload, KeyState) bool { return false }
func (BaseSubscriber) DragOver(KeyState) bool           { return false }
func (BaseSubscriber) DragLeave() bool                  { return false }
func (BaseSubscriber) Drop(Payload, KeyState) bool      { return false }
