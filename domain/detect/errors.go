package detect

import (
	"errors"
	"fmt"
)

var (
	// ErrDetection matches every error returned by a Detector.
	ErrDetection = errors.New("detection error")

	ErrMalformedFrame = errors.New("malformed frame")
	ErrNotLoaded      = errors.New("model not loaded")
)

// Error is the DetectionError of one failed detect call.
type Error struct {
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("detect %s: %v", e.Backend, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrDetection }
