package input

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"

	"github.com/soocke/pixel-overlay-go/domain/geometry"
	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

// rawcodeIsVK is true where the hook's Rawcode is a virtual-key code.
// Elsewhere Rawcode is an X11 keysym or a macOS keycode and only the
// portable Keycode is matched.
var rawcodeIsVK = runtime.GOOS == "windows"

// HookKeycode returns the hook keycode for a key token. Keys without one
// (F13 and up, CAPSLOCK, mouse buttons) are only seen by the hook through
// their Windows rawcode.
func HookKeycode(key string) (uint16, bool) {
	code, ok := gohook.Keycode[strings.ToLower(strings.TrimSpace(key))]
	return code, ok && code != 0
}

// LookupEvent returns the kinds bound to a hook event's key.
func (m *Keymap) LookupEvent(keycode, rawcode uint16) []geometry.Kind {
	var kinds []geometry.Kind
	for _, b := range m.bindings() {
		if (b.Hook != 0 && b.Hook == keycode) || (rawcodeIsVK && b.VK == rawcode) {
			kinds = append(kinds, b.Kind)
		}
	}
	return kinds
}

// HookListener latches triggers from a global keyboard hook. KeyDown fires
// once; auto-repeat is ignored until the matching KeyUp.
type HookListener struct {
	keymap *Keymap
	edges  *edges
	logger *slog.Logger
	once   sync.Once
	done   chan struct{}
}

func NewHookListener(logger *slog.Logger, flags *trigger.Flags, keymap *Keymap) *HookListener {
	return &HookListener{keymap: keymap, edges: newEdges(flags), logger: logger, done: make(chan struct{})}
}

// Start installs the hook and processes events until ctx is cancelled.
func (h *HookListener) Start(ctx context.Context) {
	go func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("keyboard hook panic", "panic", r)
			}
		}()
		evChan := gohook.Start()
		if evChan == nil {
			h.logger.Error("keyboard hook unavailable")
			return
		}
		h.logger.Info("keyboard hook started")
		go func() {
			<-ctx.Done()
			h.Stop()
		}()
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown, gohook.KeyHold:
				h.handle(ev, true)
			case gohook.KeyUp:
				h.handle(ev, false)
			}
		}
		h.logger.Info("keyboard hook stopped")
	}()
}

func (h *HookListener) handle(ev gohook.Event, down bool) {
	for _, k := range h.keymap.LookupEvent(ev.Keycode, ev.Rawcode) {
		if h.edges.observe(k, down) {
			h.logger.Debug("trigger latched", "trigger", trigger.Name(k), "source", "hook")
		}
	}
}

// Stop removes the hook. Safe to call more than once.
func (h *HookListener) Stop() {
	h.once.Do(gohook.End)
}

// Done is closed when the event loop has exited.
func (h *HookListener) Done() <-chan struct{} { return h.done }
