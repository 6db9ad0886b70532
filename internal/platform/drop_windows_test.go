//go:build windows && amd64

package platform

import (
	"context"
	"runtime"
	"testing"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var procPeekMessageW = modUser32.NewProc("PeekMessageW")

func TestPumpMessages_ReturnsOnQuit(t *testing.T) {
	done := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)

		// PeekMessage creates the thread's queue so the post is not lost.
		var m msg
		procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, 0)
		ret, _, _ := procPostThreadMessageW.Call(uintptr(windows.GetCurrentThreadId()), wmQuit, 0, 0)
		if ret == 0 {
			t.Error("PostThreadMessageW failed")
			return
		}
		pumpMessages()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("message pump did not stop on WM_QUIT")
	}
}

func TestInitialize_RejectsZeroHandle(t *testing.T) {
	errc := Initialize(context.Background(), newDispatcher(), 0)
	if err := <-errc; err == nil {
		t.Fatal("expected an error for a zero window handle")
	}
}
