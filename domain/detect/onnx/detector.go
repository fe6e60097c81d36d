// Package onnx runs YOLOv8 box and pose models through onnxruntime.
package onnx

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/soocke/pixel-overlay-go/domain/capture"
	"github.com/soocke/pixel-overlay-go/domain/detect"
	"github.com/soocke/pixel-overlay-go/domain/detect/yolo"
)

// Model kinds.
const (
	KindBox  = "onnx-box"
	KindPose = "onnx-pose"
)

type Config struct {
	Kind        string
	ModelPath   string
	LibraryPath string
	InputSize   int
	IoU         float64
	Threads     int
	BodyPartIDs []int
}

// Detector is not safe for concurrent Detect calls; the loop runs one tick
// at a time and the mutex only guards Close.
type Detector struct {
	mu      sync.Mutex
	cfg     Config
	sess    *session
	decoder *yolo.Decoder
	logger  *slog.Logger
}

func New(logger *slog.Logger, cfg Config) (*Detector, error) {
	if cfg.Kind != KindBox && cfg.Kind != KindPose {
		return nil, fmt.Errorf("onnx: unknown model kind %q", cfg.Kind)
	}
	if cfg.InputSize <= 0 {
		cfg.InputSize = yolo.DefaultInputSize
	}
	if err := initEnvironment(cfg.LibraryPath); err != nil {
		return nil, err
	}
	sess, err := newSession(cfg.ModelPath, cfg.InputSize, cfg.Threads)
	if err != nil {
		releaseEnvironment()
		return nil, err
	}
	if err := checkLayout(cfg.Kind, sess.channels); err != nil {
		sess.close()
		releaseEnvironment()
		return nil, err
	}
	dec := &yolo.Decoder{InputSize: cfg.InputSize, IoU: cfg.IoU, BodyPartIDs: map[int]bool{}}
	for _, id := range cfg.BodyPartIDs {
		dec.BodyPartIDs[id] = true
	}
	if logger != nil {
		logger.Info("onnx model loaded", "kind", cfg.Kind, "model", cfg.ModelPath, "channels", sess.channels, "anchors", sess.anchors)
	}
	return &Detector{cfg: cfg, sess: sess, decoder: dec, logger: logger}, nil
}

func checkLayout(kind string, channels int) error {
	switch kind {
	case KindPose:
		if channels != 5+3*yolo.COCOKeypoints {
			return fmt.Errorf("onnx: pose model has %d output channels, want %d", channels, 5+3*yolo.COCOKeypoints)
		}
	case KindBox:
		if channels <= 4 {
			return fmt.Errorf("onnx: box model has %d output channels", channels)
		}
	}
	return nil
}

func (d *Detector) Detect(ctx context.Context, f *capture.Frame, minConfidence float64) ([]detect.Entity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sess == nil {
		return nil, &detect.Error{Backend: d.cfg.Kind, Err: detect.ErrNotLoaded}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := detect.RGBAImage(f)
	if err != nil {
		return nil, err
	}
	fillCHW(d.sess.input.GetData(), img, d.cfg.InputSize)
	if err := d.sess.run(); err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}
	out := d.sess.output.GetData()
	min := float32(minConfidence)
	if d.cfg.Kind == KindPose {
		return d.decoder.Pose(out, d.sess.anchors, yolo.COCOKeypoints, min, f.Width, f.Height)
	}
	return d.decoder.Boxes(out, d.sess.anchors, d.sess.channels-4, min, f.Width, f.Height)
}

func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sess == nil {
		return nil
	}
	err := d.sess.close()
	d.sess = nil
	releaseEnvironment()
	return err
}
