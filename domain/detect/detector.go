package detect

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/soocke/pixel-overlay-go/domain/capture"
)

// Detector turns a frame into entities at or above minConfidence.
type Detector interface {
	Detect(ctx context.Context, f *capture.Frame, minConfidence float64) ([]Entity, error)
	Close() error
}

// Adapter wraps a backend with frame validation, threshold clamping, a final
// confidence filter and DetectionError wrapping. Backends may filter on
// their own; the adapter filters again so the contract holds for any backend.
type Adapter struct {
	name    string
	backend Detector
	logger  *slog.Logger
}

// NewAdapter wraps backend. name is used in errors and logs.
func NewAdapter(logger *slog.Logger, name string, backend Detector) *Adapter {
	return &Adapter{name: name, backend: backend, logger: logger}
}

func (a *Adapter) Name() string { return a.name }

func (a *Adapter) Detect(ctx context.Context, f *capture.Frame, minConfidence float64) ([]Entity, error) {
	if a.backend == nil {
		return nil, &Error{Backend: a.name, Err: ErrNotLoaded}
	}
	if err := ValidateFrame(f); err != nil {
		return nil, &Error{Backend: a.name, Err: err}
	}
	minConfidence = clampUnit(minConfidence)
	start := time.Now()
	entities, err := a.backend.Detect(ctx, f, minConfidence)
	if err != nil {
		var de *Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, &Error{Backend: a.name, Err: err}
	}
	entities = FilterConfidence(entities, minConfidence)
	if a.logger != nil && a.logger.Enabled(ctx, slog.LevelDebug) {
		a.logger.Debug("detect", "backend", a.name, "entities", len(entities), "elapsed", time.Since(start))
	}
	return entities, nil
}

func (a *Adapter) Close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}

func clampUnit(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
