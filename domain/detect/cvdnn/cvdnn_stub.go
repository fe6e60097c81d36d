//go:build !gocv

package cvdnn

import (
	"context"
	"errors"
	"log/slog"

	"github.com/soocke/pixel-overlay-go/domain/capture"
	"github.com/soocke/pixel-overlay-go/domain/detect"
)

const Kind = "cvdnn"

type Config struct {
	ModelPath   string
	InputSize   int
	IoU         float64
	Pose        bool
	BodyPartIDs []int
}

// Detector is never constructed without the gocv build tag.
type Detector struct{}

func Available() bool { return false }

func New(*slog.Logger, Config) (*Detector, error) {
	return nil, errors.New("cvdnn: built without the gocv tag")
}

func (*Detector) Detect(context.Context, *capture.Frame, float64) ([]detect.Entity, error) {
	return nil, &detect.Error{Backend: Kind, Err: detect.ErrNotLoaded}
}

func (*Detector) Close() error { return nil }
