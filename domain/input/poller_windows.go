package input

import (
	"log/slog"

	"golang.org/x/sys/windows"

	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

// asyncKeyDown reads the high bit of GetAsyncKeyState.
func asyncKeyDown(vk uint16) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return uint16(r)&0x8000 != 0
}

// NewAsyncKeyPoller polls the Win32 async key state.
func NewAsyncKeyPoller(logger *slog.Logger, flags *trigger.Flags, keymap *Keymap) (Poller, error) {
	if err := procGetAsyncKeyState.Find(); err != nil {
		return nil, err
	}
	return NewStatePoller(logger, flags, keymap, asyncKeyDown), nil
}
