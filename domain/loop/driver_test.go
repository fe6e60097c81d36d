package loop

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pixel-overlay-go/domain/capture"
	"github.com/soocke/pixel-overlay-go/domain/detect"
	"github.com/soocke/pixel-overlay-go/domain/geometry"
	"github.com/soocke/pixel-overlay-go/domain/metrics"
	"github.com/soocke/pixel-overlay-go/domain/overlay"
	"github.com/soocke/pixel-overlay-go/domain/settings"
	"github.com/soocke/pixel-overlay-go/domain/trigger"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type fakeSource struct {
	errs     []error // consumed one per call; nil entries succeed
	released int
	mu       sync.Mutex
}

func (s *fakeSource) Capture(_ context.Context, r capture.Region) (*capture.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, &capture.Error{Region: r, Err: err}
		}
	}
	return capture.NewFrame(r.Width, r.Height), nil
}

func (s *fakeSource) Stats() capture.Stats { return capture.Stats{} }
func (s *fakeSource) Close() error         { return nil }

type step struct {
	entities []detect.Entity
	err      error
}

type fakeDetector struct {
	steps  []step
	mins   []float64
	mu     sync.Mutex
	repeat step
}

func (d *fakeDetector) Detect(_ context.Context, _ *capture.Frame, min float64) ([]detect.Entity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mins = append(d.mins, min)
	s := d.repeat
	if len(d.steps) > 0 {
		s = d.steps[0]
		d.steps = d.steps[1:]
	}
	if s.err != nil {
		return nil, &detect.Error{Backend: "fake", Err: s.err}
	}
	return s.entities, nil
}

func (d *fakeDetector) Close() error { return nil }

type recordingPointer struct {
	mu    sync.Mutex
	moves []image.Point
}

func (p *recordingPointer) MoveTo(_ context.Context, pt image.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moves = append(p.moves, pt)
	return nil
}

func (p *recordingPointer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.moves)
}

type countingPoller struct{ polls int }

func (c *countingPoller) Poll() { c.polls++ }

var region = capture.Region{Top: 100, Left: 200, Width: 400, Height: 500}

func personBox() detect.Entity {
	return detect.Entity{Class: detect.ClassPerson, Confidence: 0.9, Shape: detect.ShapeBox, Box: image.Rect(100, 50, 300, 450)}
}

type harness struct {
	driver  *Driver
	src     *fakeSource
	det     *fakeDetector
	flags   *trigger.Flags
	pointer *recordingPointer
	surface *overlay.MemorySurface
	store   *settings.Store
	poller  *countingPoller
	metrics *metrics.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		src:     &fakeSource{},
		det:     &fakeDetector{},
		flags:   trigger.NewFlags(),
		pointer: &recordingPointer{},
		surface: overlay.NewMemorySurface(),
		store:   settings.NewStore(nil, settings.DefaultOverlay(), settings.DefaultBindings()),
		poller:  &countingPoller{},
		metrics: metrics.New(),
	}
	d, err := New(discardLogger, region, 5*time.Millisecond, Deps{
		Source:     h.src,
		Detector:   h.det,
		Settings:   h.store,
		Dispatcher: trigger.NewDispatcher(discardLogger, h.flags, h.pointer),
		Renderer:   overlay.NewRenderer(region.Width, region.Height),
		Surface:    h.surface,
		Poller:     h.poller,
		Metrics:    h.metrics,
	})
	require.NoError(t, err)
	h.driver = d
	return h
}

func TestTick_FullPass(t *testing.T) {
	h := newHarness(t)
	var seen []State
	h.driver.AddListener(func(_, next State) { seen = append(seen, next) })
	h.det.repeat = step{entities: []detect.Entity{personBox()}}

	rep := h.driver.Tick(context.Background())
	require.NoError(t, rep.Err)
	assert.Equal(t, 1, rep.Entities)
	require.Len(t, rep.Regions, 2)
	assert.Equal(t, geometry.KindHead, rep.Regions[1].Kind)
	assert.Equal(t, []State{StateCapturing, StateDetecting, StateDeriving, StateActing, StateRendering, StateIdle}, seen)
	assert.Equal(t, StateIdle, h.driver.Current())
	assert.Equal(t, 1, h.poller.polls)
	assert.Equal(t, 1, h.surface.Presents())
	assert.False(t, overlay.IsTransparent(h.surface.Last()))
	assert.Equal(t, []float64{settings.DefaultConfidence}, h.det.mins)
}

func TestTick_DetectionErrorClearsThenRecovers(t *testing.T) {
	h := newHarness(t)
	h.det.steps = []step{
		{entities: []detect.Entity{personBox()}},
		{err: errors.New("model crashed")},
		{entities: []detect.Entity{personBox()}},
	}
	ctx := context.Background()

	require.NoError(t, h.driver.Tick(ctx).Err)
	assert.False(t, overlay.IsTransparent(h.surface.Last()))

	rep := h.driver.Tick(ctx)
	assert.ErrorIs(t, rep.Err, detect.ErrDetection)
	assert.Equal(t, StateDetecting, rep.FailedIn)
	assert.True(t, overlay.IsTransparent(h.surface.Last()))
	assert.Equal(t, StateIdle, h.driver.Current())

	rep = h.driver.Tick(ctx)
	require.NoError(t, rep.Err)
	assert.False(t, overlay.IsTransparent(h.surface.Last()))
	assert.Equal(t, uint64(3), h.driver.Stats().Ticks)
	assert.Equal(t, uint64(1), h.driver.Stats().Failures)
}

func TestTick_CaptureErrorClears(t *testing.T) {
	h := newHarness(t)
	h.det.repeat = step{entities: []detect.Entity{personBox()}}
	h.src.errs = []error{nil, capture.ErrDeviceUnavailable}
	ctx := context.Background()

	h.driver.Tick(ctx)
	rep := h.driver.Tick(ctx)
	assert.ErrorIs(t, rep.Err, capture.ErrCapture)
	assert.Equal(t, StateCapturing, rep.FailedIn)
	assert.True(t, overlay.IsTransparent(h.surface.Last()))
	// detector was not called for the failed tick
	assert.Len(t, h.det.mins, 1)
}

func TestTick_NoEntitiesRendersTransparent(t *testing.T) {
	h := newHarness(t)
	rep := h.driver.Tick(context.Background())
	require.NoError(t, rep.Err)
	assert.True(t, overlay.IsTransparent(h.surface.Last()))
}

func TestTick_TriggerLatching(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.flags.Set(geometry.KindBody)

	// no detection: flag stays set, nothing fires
	h.driver.Tick(ctx)
	assert.Zero(t, h.pointer.count())
	assert.True(t, h.flags.IsSet(geometry.KindBody))

	// matching detection: exactly one move, in screen coordinates
	h.det.repeat = step{entities: []detect.Entity{personBox()}}
	rep := h.driver.Tick(ctx)
	require.Len(t, rep.Fired, 1)
	assert.Equal(t, []image.Point{{400, 350}}, h.pointer.moves)
	assert.False(t, h.flags.IsSet(geometry.KindBody))

	// detection continues but no new set
	h.driver.Tick(ctx)
	assert.Equal(t, 1, h.pointer.count())
}

func TestTick_SettingsSnapshotPerTick(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.driver.Tick(ctx)
	h.store.SetOverlay(settings.Overlay{DetectionConfidence: 0.25, LineThickness: 1})
	rep := h.driver.Tick(ctx)
	assert.Equal(t, []float64{settings.DefaultConfidence, 0.25}, h.det.mins)
	assert.Equal(t, uint64(2), rep.SettingsVersion)
}

func TestRun_StopsOnCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.driver.Run(ctx) }()

	require.Eventually(t, func() bool { return h.driver.Stats().Ticks >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(discardLogger, region, 0, Deps{})
	assert.Error(t, err)

	h := newHarness(t)
	deps := h.driver.deps
	deps.Renderer = overlay.NewRenderer(10, 10)
	_, err = New(discardLogger, region, 0, deps)
	assert.Error(t, err)
}
