package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrCapture matches every error returned by Source.Capture.
	ErrCapture = errors.New("capture error")

	ErrInvalidRegion     = errors.New("invalid capture region")
	ErrOutOfBounds       = errors.New("capture region outside display bounds")
	ErrDeviceUnavailable = errors.New("capture device unavailable")
)

// Error is the CaptureError of one failed capture.
type Error struct {
	Region Region
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("capture %s: %v", e.Region, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCapture) match any capture failure.
func (e *Error) Is(target error) bool { return target == ErrCapture }
