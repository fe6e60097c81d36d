package input

import (
	"log/slog"

	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

// Poller samples key state once per call. The loop polls at the start of
// every tick.
type Poller interface {
	Poll()
}

// KeyStateFunc reports whether the key with the given virtual-key code is
// held right now.
type KeyStateFunc func(vk uint16) bool

// StatePoller polls a KeyStateFunc and latches triggers on rising edges.
type StatePoller struct {
	keymap *Keymap
	state  KeyStateFunc
	edges  *edges
	logger *slog.Logger
}

func NewStatePoller(logger *slog.Logger, flags *trigger.Flags, keymap *Keymap, state KeyStateFunc) *StatePoller {
	return &StatePoller{keymap: keymap, state: state, edges: newEdges(flags), logger: logger}
}

func (p *StatePoller) Poll() {
	for _, b := range p.keymap.bindings() {
		if p.edges.observe(b.Kind, p.state(b.VK)) {
			p.logger.Debug("trigger latched", "trigger", trigger.Name(b.Kind), "source", "poll")
		}
	}
}
