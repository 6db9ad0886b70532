//go:build windows && amd64

package platform

// Windows drag-and-drop through a hand-built COM IDropTarget.
// The OS calls our vtable on the window's thread; every call is translated into a
// RawEvent and delivered synchronously so the resulting effect can be written back
// into pdwEffect before returning to OLE.

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/justyntemme/dragdrop/internal/debug"
)

var (
	modOle32    = windows.NewLazySystemDLL("ole32.dll")
	modShell32  = windows.NewLazySystemDLL("shell32.dll")
	modKernel32 = windows.NewLazySystemDLL("kernel32.dll")
	modUser32   = windows.NewLazySystemDLL("user32.dll")

	procOleInitialize    = modOle32.NewProc("OleInitialize")
	procOleUninitialize  = modOle32.NewProc("OleUninitialize")
	procRegisterDragDrop = modOle32.NewProc("RegisterDragDrop")
	procRevokeDragDrop   = modOle32.NewProc("RevokeDragDrop")
	procReleaseStgMedium = modOle32.NewProc("ReleaseStgMedium")
	procDragQueryFileW   = modShell32.NewProc("DragQueryFileW")
	procGlobalLock       = modKernel32.NewProc("GlobalLock")
	procGlobalUnlock     = modKernel32.NewProc("GlobalUnlock")

	procGetMessageW        = modUser32.NewProc("GetMessageW")
	procTranslateMessage   = modUser32.NewProc("TranslateMessage")
	procDispatchMessageW   = modUser32.NewProc("DispatchMessageW")
	procPostThreadMessageW = modUser32.NewProc("PostThreadMessageW")
)

// COM constants
const (
	cfUnicodeText   = 13
	cfHDROP         = 15
	tymedHGlobal    = 1
	dvaspectContent = 1
	comSOK          = 0
	comSFalse       = 1
	comENoInterface = 0x80004002
	wmQuit          = 0x0012
)

var (
	iidIUnknown    = syscall.GUID{Data1: 0x00000000, Data2: 0x0000, Data3: 0x0000, Data4: [8]byte{0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}}
	iidIDropTarget = syscall.GUID{Data1: 0x00000122, Data2: 0x0000, Data3: 0x0000, Data4: [8]byte{0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}}
)

type point struct {
	x, y int32
}

// MSG, as filled by GetMessageW.
type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point
}

// FORMATETC, Win64 layout.
type formatETC struct {
	cfFormat uint16
	_pad     [6]byte
	ptd      uintptr
	dwAspect uint32
	lindex   int32
	tymed    uint32
	_pad2    [4]byte
}

// STGMEDIUM, Win64 layout.
type stgMEDIUM struct {
	tymed          uint32
	_pad           uint32
	hGlobal        uintptr
	pUnkForRelease uintptr
}

type dropTargetVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
	DragEnter      uintptr
	DragOver       uintptr
	DragLeave      uintptr
	Drop           uintptr
}

// goDropTarget is the COM object. lpVtbl must stay the first field.
type goDropTarget struct {
	lpVtbl   *dropTargetVtbl
	refCount int32
}

// Globals keep the COM object and callbacks reachable while OLE holds pointers to them.
var (
	gDropTarget     *goDropTarget
	gDropTargetVtbl *dropTargetVtbl
	gTarget         Target
	gTargetMu       sync.Mutex
)

func currentTarget() Target {
	gTargetMu.Lock()
	defer gTargetMu.Unlock()
	return gTarget
}

func dtQueryInterface(this, riid, ppvObject uintptr) uintptr {
	if ppvObject == 0 {
		return comENoInterface
	}
	guid := (*syscall.GUID)(unsafe.Pointer(riid))
	if *guid == iidIUnknown || *guid == iidIDropTarget {
		*(*uintptr)(unsafe.Pointer(ppvObject)) = this
		dtAddRef(this)
		return comSOK
	}
	*(*uintptr)(unsafe.Pointer(ppvObject)) = 0
	return comENoInterface
}

func dtAddRef(this uintptr) uintptr {
	dt := (*goDropTarget)(unsafe.Pointer(this))
	return uintptr(atomic.AddInt32(&dt.refCount, 1))
}

func dtRelease(this uintptr) uintptr {
	dt := (*goDropTarget)(unsafe.Pointer(this))
	return uintptr(atomic.AddInt32(&dt.refCount, -1))
}

// On x64: this=RCX, pDataObj=RDX, grfKeyState=R8, pt=R9 (POINTL packed), pdwEffect=stack
func dtDragEnter(this, pDataObj, grfKeyState, pt, pdwEffect uintptr) uintptr {
	ev := RawEvent{Kind: KindEnter, KeyState: uint32(grfKeyState)}
	readDataObject(pDataObj, &ev)
	return deliverCOM(ev, pdwEffect)
}

func dtDragOver(this, grfKeyState, pt, pdwEffect uintptr) uintptr {
	return deliverCOM(RawEvent{Kind: KindOver, KeyState: uint32(grfKeyState)}, pdwEffect)
}

func dtDragLeave(this uintptr) uintptr {
	deliverCOM(RawEvent{Kind: KindLeave}, 0)
	return comSOK
}

func dtDrop(this, pDataObj, grfKeyState, pt, pdwEffect uintptr) uintptr {
	ev := RawEvent{Kind: KindDrop, KeyState: uint32(grfKeyState)}
	readDataObject(pDataObj, &ev)
	return deliverCOM(ev, pdwEffect)
}

func deliverCOM(ev RawEvent, pdwEffect uintptr) uintptr {
	t := currentTarget()
	if t == nil {
		if pdwEffect != 0 {
			*(*uint32)(unsafe.Pointer(pdwEffect)) = 0
		}
		return comSOK
	}
	effect := Deliver(t, ev)
	debug.Log(debug.OLE, "kind=%d keys=%#x effect=%s", ev.Kind, ev.KeyState, effect)
	if pdwEffect != 0 {
		*(*uint32)(unsafe.Pointer(pdwEffect)) = uint32(effect)
	}
	return comSOK
}

// IDataObject helpers

func readDataObject(pDataObj uintptr, ev *RawEvent) {
	if pDataObj == 0 {
		return
	}
	if paths := extractHDROPPaths(pDataObj); len(paths) > 0 {
		ev.Paths = paths
		return
	}
	if text, ok := extractUnicodeText(pDataObj); ok {
		ev.Text = &text
	}
}

// getData calls IDataObject::GetData (vtable index 3).
func getData(pDataObj uintptr, format uint16) (stgMEDIUM, bool) {
	fe := formatETC{
		cfFormat: format,
		dwAspect: dvaspectContent,
		lindex:   -1,
		tymed:    tymedHGlobal,
	}
	var medium stgMEDIUM
	vtblPtr := *(*uintptr)(unsafe.Pointer(pDataObj))
	fn := *(*uintptr)(unsafe.Pointer(vtblPtr + 3*unsafe.Sizeof(uintptr(0))))
	ret, _, _ := syscall.SyscallN(fn, pDataObj, uintptr(unsafe.Pointer(&fe)), uintptr(unsafe.Pointer(&medium)))
	return medium, ret == comSOK
}

// extractHDROPPaths reads CF_HDROP path strings. File contents are never touched.
func extractHDROPPaths(pDataObj uintptr) []string {
	medium, ok := getData(pDataObj, cfHDROP)
	if !ok {
		return nil
	}
	defer procReleaseStgMedium.Call(uintptr(unsafe.Pointer(&medium)))

	hdrop := medium.hGlobal
	count, _, _ := procDragQueryFileW.Call(hdrop, 0xFFFFFFFF, 0, 0)

	var paths []string
	for i := uintptr(0); i < count; i++ {
		size, _, _ := procDragQueryFileW.Call(hdrop, i, 0, 0)
		if size == 0 {
			continue
		}
		buf := make([]uint16, size+1)
		procDragQueryFileW.Call(hdrop, i, uintptr(unsafe.Pointer(&buf[0])), size+1)
		paths = append(paths, windows.UTF16ToString(buf))
	}
	return paths
}

func extractUnicodeText(pDataObj uintptr) (string, bool) {
	medium, ok := getData(pDataObj, cfUnicodeText)
	if !ok {
		return "", false
	}
	defer procReleaseStgMedium.Call(uintptr(unsafe.Pointer(&medium)))

	ptr, _, _ := procGlobalLock.Call(medium.hGlobal)
	if ptr == 0 {
		return "", false
	}
	defer procGlobalUnlock.Call(medium.hGlobal)
	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(ptr))), true
}

// Setup

// Initialize registers an IDropTarget for hwnd on a background goroutine locked to its
// own OS thread, which then pumps messages for the OLE apartment. The returned channel
// receives nil once registered, or the registration error. When ctx is done the pump is
// told to quit and the target is revoked. Call it once per window.
func Initialize(ctx context.Context, t Target, hwnd uintptr) <-chan error {
	errc := make(chan error, 1)
	if hwnd == 0 {
		errc <- fmt.Errorf("platform: invalid window handle")
		return errc
	}

	gTargetMu.Lock()
	gTarget = t
	gTargetMu.Unlock()

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		ret, _, _ := procOleInitialize.Call(0)
		debug.Log(debug.PLATFORM, "OleInitialize hresult=%#x", ret)
		if ret != comSOK && ret != comSFalse {
			errc <- fmt.Errorf("platform: OleInitialize failed: hresult %#x", ret)
			return
		}
		defer procOleUninitialize.Call()

		if gDropTarget == nil {
			gDropTargetVtbl = &dropTargetVtbl{
				QueryInterface: syscall.NewCallback(dtQueryInterface),
				AddRef:         syscall.NewCallback(dtAddRef),
				Release:        syscall.NewCallback(dtRelease),
				DragEnter:      syscall.NewCallback(dtDragEnter),
				DragOver:       syscall.NewCallback(dtDragOver),
				DragLeave:      syscall.NewCallback(dtDragLeave),
				Drop:           syscall.NewCallback(dtDrop),
			}
			gDropTarget = &goDropTarget{lpVtbl: gDropTargetVtbl, refCount: 1}
		}

		procRevokeDragDrop.Call(hwnd) // stale registration, if any
		ret, _, _ = procRegisterDragDrop.Call(hwnd, uintptr(unsafe.Pointer(gDropTarget)))
		debug.Log(debug.PLATFORM, "RegisterDragDrop hwnd=%#x hresult=%#x", hwnd, ret)
		if ret != comSOK {
			errc <- fmt.Errorf("platform: RegisterDragDrop failed: hresult %#x", ret)
			return
		}
		errc <- nil

		tid := windows.GetCurrentThreadId()
		go func() {
			<-ctx.Done()
			procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
		}()
		pumpMessages()

		procRevokeDragDrop.Call(hwnd)
		debug.Log(debug.PLATFORM, "RevokeDragDrop hwnd=%#x", hwnd)
	}()
	return errc
}

// pumpMessages services the apartment's queue until WM_QUIT. Cross-process drags reach
// the IDropTarget through this queue.
func pumpMessages() {
	var m msg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if ret == 0 || int32(ret) == -1 {
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}
