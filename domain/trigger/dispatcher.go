package trigger

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"github.com/soocke/pixel-overlay-go/domain/action"
	"github.com/soocke/pixel-overlay-go/domain/geometry"
)

// Fired describes one dispatched action.
type Fired struct {
	Kind   geometry.Kind
	Target image.Point
	Err    error
}

// Dispatcher fires pending triggers against derived regions.
type Dispatcher struct {
	flags   *Flags
	pointer action.Pointer
	logger  *slog.Logger
}

func NewDispatcher(logger *slog.Logger, flags *Flags, pointer action.Pointer) *Dispatcher {
	return &Dispatcher{flags: flags, pointer: pointer, logger: logger}
}

// Dispatch handles every pending kind. The first region of that kind in
// detection order is the target; its centroid is offset by origin to get
// screen coordinates. A fired flag is consumed even when the move fails.
// Kinds without a matching region stay pending.
func (d *Dispatcher) Dispatch(ctx context.Context, regions []geometry.Region, origin image.Point) []Fired {
	var fired []Fired
	for _, k := range Kinds {
		tok, ok := d.flags.Pending(k)
		if !ok {
			continue
		}
		r, found := first(regions, k)
		if !found {
			continue
		}
		target := r.Target().Add(origin)
		err := d.pointer.MoveTo(ctx, target)
		d.flags.Consume(tok)
		if err != nil {
			var ae *action.Error
			if !errors.As(err, &ae) {
				err = &action.Error{Target: target, Err: err}
			}
			d.logger.Warn("trigger action failed", "trigger", Name(k), "x", target.X, "y", target.Y, "error", err)
		} else {
			d.logger.Debug("trigger fired", "trigger", Name(k), "x", target.X, "y", target.Y)
		}
		fired = append(fired, Fired{Kind: k, Target: target, Err: err})
	}
	return fired
}

func first(regions []geometry.Region, k geometry.Kind) (geometry.Region, bool) {
	for _, r := range regions {
		if r.Kind == k {
			return r, true
		}
	}
	return geometry.Region{}, false
}
