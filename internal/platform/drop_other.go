//go:build !windows || !amd64

package platform

import "context"

// Initialize is a no-op outside Windows/amd64. Feed a Listener instead.
func Initialize(ctx context.Context, t Target, hwnd uintptr) <-chan error {
	errc := make(chan error, 1)
	errc <- ErrUnsupported
	return errc
}
