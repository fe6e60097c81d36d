package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/pixel-overlay-go/config"
	"github.com/soocke/pixel-overlay-go/domain/detect"
	"github.com/soocke/pixel-overlay-go/domain/detect/cvdnn"
	"github.com/soocke/pixel-overlay-go/domain/detect/onnx"
	"github.com/soocke/pixel-overlay-go/domain/detect/remote"
)

// Detector names accepted in config.
const (
	DetectorRemote    = remote.Kind
	DetectorOnnxBox   = onnx.KindBox
	DetectorOnnxPose  = onnx.KindPose
	DetectorCVDNN     = "cvdnn"
	DetectorCVDNNPose = "cvdnn-pose"
)

// NewDetector builds the backend named by cfg.Detector and wraps it in the
// confidence filtering adapter.
func NewDetector(logger *slog.Logger, cfg *config.Config) (*detect.Adapter, error) {
	var (
		backend detect.Detector
		err     error
	)
	switch cfg.Detector {
	case DetectorRemote:
		backend, err = remote.New(logger, remote.Config{
			Endpoint: cfg.RemoteEndpoint,
			Timeout:  time.Duration(cfg.RemoteTimeoutMs) * time.Millisecond,
			Topology: cfg.RemoteTopology,
		})
	case DetectorOnnxBox, DetectorOnnxPose:
		backend, err = onnx.New(logger, onnx.Config{
			Kind:        cfg.Detector,
			ModelPath:   cfg.ModelPath,
			LibraryPath: cfg.OnnxLibraryPath,
			InputSize:   cfg.InputSize,
			IoU:         cfg.IoUThreshold,
			Threads:     cfg.Threads,
			BodyPartIDs: cfg.BodyPartClassIDs,
		})
	case DetectorCVDNN, DetectorCVDNNPose:
		if !cvdnn.Available() {
			return nil, fmt.Errorf("detector %s: binary built without the gocv tag", cfg.Detector)
		}
		backend, err = cvdnn.New(logger, cvdnn.Config{
			ModelPath:   cfg.ModelPath,
			InputSize:   cfg.InputSize,
			IoU:         cfg.IoUThreshold,
			Pose:        cfg.Detector == DetectorCVDNNPose,
			BodyPartIDs: cfg.BodyPartClassIDs,
		})
	default:
		return nil, fmt.Errorf("unknown detector %q", cfg.Detector)
	}
	if err != nil {
		return nil, fmt.Errorf("detector %s: %w", cfg.Detector, err)
	}
	return detect.NewAdapter(logger, cfg.Detector, backend), nil
}
