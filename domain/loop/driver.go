// Package loop sequences capture, detection, derivation, actions and
// rendering on a fixed period. One tick always finishes before the next
// starts, and a failing tick never stops the loop.
package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/pixel-overlay-go/domain/capture"
	"github.com/soocke/pixel-overlay-go/domain/detect"
	"github.com/soocke/pixel-overlay-go/domain/geometry"
	"github.com/soocke/pixel-overlay-go/domain/input"
	"github.com/soocke/pixel-overlay-go/domain/metrics"
	"github.com/soocke/pixel-overlay-go/domain/overlay"
	"github.com/soocke/pixel-overlay-go/domain/settings"
	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

const DefaultPeriod = 30 * time.Millisecond

// Deps are the collaborators of a Driver. Poller and Metrics are optional.
type Deps struct {
	Source     capture.Source
	Detector   detect.Detector
	Settings   *settings.Store
	Dispatcher *trigger.Dispatcher
	Renderer   *overlay.Renderer
	Surface    overlay.Surface
	Poller     input.Poller
	Metrics    *metrics.Metrics
}

// TickReport summarises one tick.
type TickReport struct {
	Sequence        uint64
	SettingsVersion uint64
	Entities        int
	Regions         []geometry.Region
	Fired           []trigger.Fired
	// FailedIn is the stage that failed, or StateIdle.
	FailedIn State
	Err      error
	Duration time.Duration
}

// Stats are cumulative loop counters.
type Stats struct {
	Ticks    uint64
	Failures uint64
	LastTick time.Time
}

// Driver runs the tick state machine. The capture region is fixed for the
// lifetime of the driver.
type Driver struct {
	region capture.Region
	period time.Duration
	deps   Deps
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	listeners []StateListener

	ticks    atomic.Uint64
	failures atomic.Uint64
	lastTick atomic.Int64
}

func New(logger *slog.Logger, region capture.Region, period time.Duration, deps Deps) (*Driver, error) {
	if deps.Source == nil || deps.Detector == nil || deps.Settings == nil ||
		deps.Dispatcher == nil || deps.Renderer == nil || deps.Surface == nil {
		return nil, errors.New("loop: missing collaborator")
	}
	if region.Width <= 0 || region.Height <= 0 {
		return nil, fmt.Errorf("loop: %w", capture.ErrInvalidRegion)
	}
	if r := deps.Renderer.Bounds(); r.Dx() != region.Width || r.Dy() != region.Height {
		return nil, fmt.Errorf("loop: renderer %v does not match region %s", r, region)
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Driver{region: region, period: period, deps: deps, logger: logger}, nil
}

func (d *Driver) Region() capture.Region { return d.region }

func (d *Driver) Period() time.Duration { return d.period }

// Current returns the current state.
func (d *Driver) Current() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) AddListener(l StateListener) {
	d.mu.Lock()
	d.listeners = append(d.listeners, l)
	d.mu.Unlock()
}

func (d *Driver) transition(next State) {
	d.mu.Lock()
	prev := d.state
	d.state = next
	ls := d.listeners
	d.mu.Unlock()
	if prev == next {
		return
	}
	for _, l := range ls {
		l(prev, next)
	}
}

func (d *Driver) Stats() Stats {
	var last time.Time
	if ns := d.lastTick.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}
	return Stats{Ticks: d.ticks.Load(), Failures: d.failures.Load(), LastTick: last}
}

// Run ticks every period until ctx is done. The ticker buffers a single
// pending tick, so ticks missed while a slow tick runs are dropped.
func (d *Driver) Run(ctx context.Context) error {
	d.logger.Info("loop started", "region", d.region.String(), "period", d.period)
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()
	d.safeTick(ctx)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("loop stopped", "ticks", d.ticks.Load(), "failures", d.failures.Load())
			return ctx.Err()
		case <-ticker.C:
			d.safeTick(ctx)
		}
	}
}

func (d *Driver) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			d.failures.Add(1)
			d.logger.Error("tick panic", "error", r, "stack", string(debug.Stack()))
			d.presentCleared()
			d.transition(StateIdle)
		}
	}()
	d.Tick(ctx)
}

// Tick runs one full tick.
func (d *Driver) Tick(ctx context.Context) (rep TickReport) {
	start := time.Now()
	defer func() {
		rep.Duration = time.Since(start)
		d.ticks.Add(1)
		d.lastTick.Store(start.UnixNano())
		if m := d.deps.Metrics; m != nil {
			m.Ticks.Inc()
			m.TickDuration.Observe(rep.Duration.Seconds())
			m.Entities.Set(float64(rep.Entities))
			m.SettingsVer.Set(float64(rep.SettingsVersion))
		}
	}()

	d.transition(StateCapturing)
	snap := d.deps.Settings.Snapshot()
	rep.SettingsVersion = snap.Version
	if d.deps.Poller != nil {
		d.deps.Poller.Poll()
	}
	stage := time.Now()
	frame, err := d.deps.Source.Capture(ctx, d.region)
	d.observe("capture", stage)
	if err != nil {
		return d.fail(rep, StateCapturing, "capture", err)
	}
	defer frame.Release()
	rep.Sequence = frame.Sequence

	d.transition(StateDetecting)
	stage = time.Now()
	entities, err := d.deps.Detector.Detect(ctx, frame, snap.Overlay.DetectionConfidence)
	d.observe("detect", stage)
	if err != nil {
		return d.fail(rep, StateDetecting, "detection", err)
	}
	rep.Entities = len(entities)

	d.transition(StateDeriving)
	w, h := frame.Width, frame.Height
	regions := geometry.Derive(entities, w, h)
	segments := geometry.SkeletonSegments(entities, snap.Overlay.LevelOfDetail, w, h)
	rep.Regions = regions

	d.transition(StateActing)
	rep.Fired = d.deps.Dispatcher.Dispatch(ctx, regions, d.region.Origin())
	for _, f := range rep.Fired {
		if m := d.deps.Metrics; m != nil {
			if f.Err != nil {
				m.Errors.WithLabelValues("action").Inc()
			} else {
				m.Actions.WithLabelValues(trigger.Name(f.Kind)).Inc()
			}
		}
	}

	d.transition(StateRendering)
	stage = time.Now()
	img := d.deps.Renderer.Render(regions, segments, snap.Overlay)
	if err := d.deps.Surface.Present(img); err != nil {
		d.countError("present")
		d.logger.Warn("overlay present failed", "error", err)
	}
	d.observe("render", stage)
	d.transition(StateIdle)
	return rep
}

// fail clears the surface and ends the tick.
func (d *Driver) fail(rep TickReport, in State, kind string, err error) TickReport {
	d.failures.Add(1)
	d.countError(kind)
	d.logger.Warn("tick skipped", "stage", in.String(), "error", err)
	rep.FailedIn = in
	rep.Err = err
	d.presentCleared()
	d.transition(StateIdle)
	return rep
}

func (d *Driver) presentCleared() {
	if err := d.deps.Surface.Present(d.deps.Renderer.Clear()); err != nil {
		d.countError("present")
		d.logger.Warn("overlay clear failed", "error", err)
	}
}

func (d *Driver) countError(kind string) {
	if m := d.deps.Metrics; m != nil {
		m.Errors.WithLabelValues(kind).Inc()
	}
}

func (d *Driver) observe(stage string, since time.Time) {
	if m := d.deps.Metrics; m != nil {
		m.StageDuration.WithLabelValues(stage).Observe(time.Since(since).Seconds())
	}
}
