package presenter

import (
	"fmt"
	"sync/atomic"

	"github.com/soocke/pixel-overlay-go/domain/geometry"
	"github.com/soocke/pixel-overlay-go/domain/loop"
	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

// LoopSource provides the loop methods the presenter requires.
type LoopSource interface {
	Stats() loop.Stats
}

// PendingSource reports latched triggers.
type PendingSource interface {
	IsSet(k geometry.Kind) bool
}

// StatusView sets the status labels in the view.
type StatusView interface {
	SetStateLabel(string)
	SetStatsLabel(string)
}

// StatusPresenter receives loop state transitions and reflects the latest
// state and counters in the view on Tick.
type StatusPresenter struct {
	loop    LoopSource
	pending PendingSource
	view    StatusView

	state     atomic.Int32
	lastState string
	lastStats string
}

func NewStatusPresenter(src LoopSource, pending PendingSource, view StatusView) *StatusPresenter {
	return &StatusPresenter{loop: src, pending: pending, view: view}
}

// OnState is a loop.StateListener; it runs on the loop goroutine.
func (p *StatusPresenter) OnState(_, next loop.State) {
	if p == nil {
		return
	}
	p.state.Store(int32(next))
}

// Tick updates the view with the most recent state and counters. Labels are
// only reconfigured when their text changes.
func (p *StatusPresenter) Tick() {
	if p == nil || p.view == nil {
		return
	}
	if s := "State: " + loop.State(p.state.Load()).String(); s != p.lastState {
		p.lastState = s
		p.view.SetStateLabel(s)
	}
	if p.loop == nil {
		return
	}
	st := p.loop.Stats()
	text := fmt.Sprintf("Ticks: %d  Failures: %d", st.Ticks, st.Failures)
	if p.pending != nil {
		for _, k := range trigger.Kinds {
			if p.pending.IsSet(k) {
				text += "  [" + trigger.Name(k) + "]"
			}
		}
	}
	if text != p.lastStats {
		p.lastStats = text
		p.view.SetStatsLabel(text)
	}
}
