//go:build !windows || !amd64

package platform

import (
	"context"
	"errors"
	"testing"
)

func TestInitialize_Unsupported(t *testing.T) {
	err := <-Initialize(context.Background(), newDispatcher(), 1)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
