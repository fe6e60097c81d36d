//go:build gocv

// Package cvdnn runs YOLOv8 models through the OpenCV DNN module.
package cvdnn

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/soocke/pixel-overlay-go/domain/capture"
	"github.com/soocke/pixel-overlay-go/domain/detect"
	"github.com/soocke/pixel-overlay-go/domain/detect/yolo"
)

const Kind = "cvdnn"

type Config struct {
	ModelPath   string
	InputSize   int
	IoU         float64
	Pose        bool
	BodyPartIDs []int
}

type Detector struct {
	mu      sync.Mutex
	net     gocv.Net
	loaded  bool
	cfg     Config
	decoder *yolo.Decoder
	logger  *slog.Logger
}

// Available reports whether this build includes the OpenCV backend.
func Available() bool { return true }

func New(logger *slog.Logger, cfg Config) (*Detector, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("cvdnn: model file %s: %w", cfg.ModelPath, err)
	}
	if cfg.InputSize <= 0 {
		cfg.InputSize = yolo.DefaultInputSize
	}
	net := gocv.ReadNet(cfg.ModelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("cvdnn: failed to load model %s", cfg.ModelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendOpenCV)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	dec := &yolo.Decoder{InputSize: cfg.InputSize, IoU: cfg.IoU, BodyPartIDs: map[int]bool{}}
	for _, id := range cfg.BodyPartIDs {
		dec.BodyPartIDs[id] = true
	}
	if logger != nil {
		logger.Info("cvdnn model loaded", "model", cfg.ModelPath, "pose", cfg.Pose)
	}
	return &Detector{net: net, loaded: true, cfg: cfg, decoder: dec, logger: logger}, nil
}

func (d *Detector) Detect(ctx context.Context, f *capture.Frame, minConfidence float64) ([]detect.Entity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		return nil, &detect.Error{Backend: Kind, Err: detect.ErrNotLoaded}
	}
	if err := detect.ValidateFrame(f); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC4, f.Pix[:f.Stride*f.Height])
	if err != nil {
		return nil, fmt.Errorf("wrapping frame: %w", err)
	}
	defer src.Close()

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(src, &rgb, gocv.ColorBGRAToRGB)

	size := image.Pt(d.cfg.InputSize, d.cfg.InputSize)
	blob := gocv.BlobFromImage(rgb, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	dims := out.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("%w: output dims %v", detect.ErrMalformedFrame, dims)
	}
	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("reading output: %w", err)
	}
	channels, anchors := dims[1], dims[2]
	min := float32(minConfidence)
	if d.cfg.Pose {
		return d.decoder.Pose(data, anchors, yolo.COCOKeypoints, min, f.Width, f.Height)
	}
	return d.decoder.Boxes(data, anchors, channels-4, min, f.Width, f.Height)
}

func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		return nil
	}
	d.loaded = false
	return d.net.Close()
}
