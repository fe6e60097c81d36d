// Package input turns raw key activity into trigger sets. Both sources are
// edge triggered: holding a key latches its trigger once, and only a release
// followed by a new press latches it again.
package input

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/soocke/pixel-overlay-go/domain/geometry"
	"github.com/soocke/pixel-overlay-go/domain/settings"
	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

// binding maps one key to a trigger kind. VK is the Windows virtual-key
// code read by the poller; Hook is the hook keycode, zero when the hook
// has no code for the key.
type binding struct {
	VK   uint16
	Hook uint16
	Kind geometry.Kind
}

// Keymap resolves the current key bindings. It is swapped atomically when
// settings change.
type Keymap struct {
	cur atomic.Pointer[[]binding]
}

// NewKeymap builds a keymap from b. Unknown key names are reported and
// left unbound.
func NewKeymap(b settings.Bindings) (*Keymap, error) {
	m := &Keymap{}
	return m, m.Set(b)
}

// Set replaces the bindings. On error the valid subset is still applied.
func (m *Keymap) Set(b settings.Bindings) error {
	var out []binding
	var err error
	for _, kb := range []struct {
		key  string
		kind geometry.Kind
	}{
		{b.SnapBodyKey, geometry.KindBody},
		{b.SnapHeadKey, geometry.KindHead},
	} {
		vk, ok := ParseVK(kb.key)
		if !ok {
			err = fmt.Errorf("input: unknown key %q for %s", kb.key, trigger.Name(kb.kind))
			continue
		}
		hook, _ := HookKeycode(kb.key)
		out = append(out, binding{VK: vk, Hook: hook, Kind: kb.kind})
	}
	m.cur.Store(&out)
	return err
}

func (m *Keymap) bindings() []binding {
	if p := m.cur.Load(); p != nil {
		return *p
	}
	return nil
}

// Follow keeps m in sync with store until the returned function is called.
func (m *Keymap) Follow(logger *slog.Logger, store *settings.Store) func() {
	return store.Subscribe(func(prev, next settings.Snapshot) {
		if prev.Bindings == next.Bindings {
			return
		}
		if err := m.Set(next.Bindings); err != nil {
			logger.Warn("key binding ignored", "error", err)
		}
	})
}

// edges latches a trigger on the released to pressed transition of a kind.
type edges struct {
	mu      sync.Mutex
	pressed map[geometry.Kind]bool
	flags   *trigger.Flags
}

func newEdges(flags *trigger.Flags) *edges {
	return &edges{pressed: map[geometry.Kind]bool{}, flags: flags}
}

// observe records the key state of kind and reports whether it latched.
func (e *edges) observe(k geometry.Kind, down bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	was := e.pressed[k]
	e.pressed[k] = down
	if down && !was {
		e.flags.Set(k)
		return true
	}
	return false
}
