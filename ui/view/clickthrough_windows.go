//go:build windows

package view

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	gwlExStyle       = ^uintptr(19) // GWL_EXSTYLE (-20)
	wsExLayered      = 0x00080000
	wsExTransparent  = 0x00000020
	wsExToolWindow   = 0x00000080
	wsExNoActivate   = 0x08000000
	clickThroughMask = wsExLayered | wsExTransparent | wsExToolWindow | wsExNoActivate
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW      = user32.NewProc("FindWindowW")
	procGetWindowLongPtr = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtr = user32.NewProc("SetWindowLongPtrW")
)

// makeClickThrough lets mouse input pass through the window titled title.
func makeClickThrough(title string) error {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(t)))
	if hwnd == 0 {
		return fmt.Errorf("window %q not found", title)
	}
	style, _, _ := procGetWindowLongPtr.Call(hwnd, gwlExStyle)
	// A zero return is only an error when the last error is set too.
	prev, _, err := procSetWindowLongPtr.Call(hwnd, gwlExStyle, style|clickThroughMask)
	if prev == 0 && !errors.Is(err, windows.ERROR_SUCCESS) {
		return fmt.Errorf("SetWindowLongPtrW: %w", err)
	}
	return nil
}
