//go:build !windows

package action

import (
	"errors"
	"log/slog"
)

func newWin32Pointer() (Pointer, error) {
	return nil, errors.New("action: win32 pointer requires windows")
}

func defaultPointer(*slog.Logger) Pointer { return RobotgoPointer{} }
