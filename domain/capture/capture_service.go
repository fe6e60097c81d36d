package capture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"
)

const captureStatsLogInterval = 5 * time.Second

// Grabber is a platform capture backend. Grab must fill dst (already sized to
// rect) with BGRA pixels; Bounds reports the virtual screen rectangle.
type Grabber interface {
	Bounds() (image.Rectangle, error)
	Grab(rect image.Rectangle, dst *Frame) error
}

// Source captures a region as a Frame on demand. Use NewSource to construct an
// instance around a Grabber.
type Source interface {
	Capture(ctx context.Context, r Region) (*Frame, error)
	Stats() Stats
	Close() error
}

type captureService struct {
	grabber      Grabber
	logger       *slog.Logger
	captures     atomic.Uint64
	failures     atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
	lastCapture  atomic.Int64
	lastLog      atomic.Int64
	closed       atomic.Bool
}

// NewSource wraps grabber with region validation, frame pooling and stats.
func NewSource(logger *slog.Logger, grabber Grabber) Source {
	return &captureService{grabber: grabber, logger: logger}
}

func (s *captureService) Capture(ctx context.Context, r Region) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Region: r, Err: err}
	}
	if s.closed.Load() || s.grabber == nil {
		s.failures.Add(1)
		return nil, &Error{Region: r, Err: ErrDeviceUnavailable}
	}
	start := time.Now()
	screen, err := s.grabber.Bounds()
	if err != nil {
		s.failures.Add(1)
		return nil, &Error{Region: r, Err: fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)}
	}
	if err := r.Validate(screen); err != nil {
		s.failures.Add(1)
		return nil, &Error{Region: r, Err: err}
	}

	frame := acquireFrame(r.Width, r.Height)
	if err := s.grabber.Grab(r.Rect(), frame); err != nil {
		frame.Release()
		s.failures.Add(1)
		return nil, &Error{Region: r, Err: fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)}
	}
	if frame.Width != r.Width || frame.Height != r.Height || len(frame.Pix) < frame.Stride*frame.Height {
		frame.Release()
		s.failures.Add(1)
		return nil, &Error{Region: r, Err: fmt.Errorf("%w: grabber returned %dx%d", ErrDeviceUnavailable, frame.Width, frame.Height)}
	}

	now := time.Now()
	s.captureNanos.Add(uint64(now.Sub(start).Nanoseconds()))
	s.captures.Add(1)
	s.lastCapture.Store(now.UnixNano())
	frame.CapturedAt = now
	frame.Sequence = s.sequence.Add(1)
	s.maybeLogStats(now)
	return frame, nil
}

func (s *captureService) Stats() Stats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
	}
	var last time.Time
	if ns := s.lastCapture.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}
	return Stats{
		Captures:    captures,
		Failures:    s.failures.Load(),
		AvgCapture:  avg,
		LastCapture: last,
		Sequence:    s.sequence.Load(),
	}
}

func (s *captureService) Close() error {
	s.closed.Store(true)
	return nil
}

func (s *captureService) maybeLogStats(now time.Time) {
	if s.logger == nil {
		return
	}
	last := s.lastLog.Load()
	if last != 0 && now.Sub(time.Unix(0, last)) < captureStatsLogInterval {
		return
	}
	if !s.lastLog.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"failures", stats.Failures,
		"avg_capture", stats.AvgCapture,
	)
}
