//go:build !windows

package capture

import "errors"

// NewGDIGrabber is only available on Windows.
func NewGDIGrabber() (Grabber, error) {
	return nil, errors.New("capture: gdi backend requires windows")
}
