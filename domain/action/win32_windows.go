package action

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/sys/windows"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procSetCursorPos = user32.NewProc("SetCursorPos")
)

// Win32Pointer moves the pointer with SetCursorPos.
type Win32Pointer struct{}

func newWin32Pointer() (Pointer, error) {
	if err := procSetCursorPos.Find(); err != nil {
		return nil, fmt.Errorf("action: SetCursorPos unavailable: %w", err)
	}
	return Win32Pointer{}, nil
}

func defaultPointer(*slog.Logger) Pointer { return Win32Pointer{} }

func (Win32Pointer) MoveTo(ctx context.Context, p image.Point) error {
	if err := ctx.Err(); err != nil {
		return &Error{Target: p, Err: err}
	}
	r, _, callErr := procSetCursorPos.Call(uintptr(int32(p.X)), uintptr(int32(p.Y)))
	if r == 0 {
		return &Error{Target: p, Err: callErr}
	}
	return nil
}
