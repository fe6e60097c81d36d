package capture

import (
	"fmt"
	"strings"

	kbscreenshot "github.com/kbinani/screenshot"
)

// Backend names accepted by NewGrabber.
const (
	BackendScreenshot = "screenshot"
	BackendVova       = "vova"
	BackendGDI        = "gdi"
)

// NewGrabber returns the capture backend registered under name. An empty name
// selects BackendScreenshot.
func NewGrabber(name string) (Grabber, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendScreenshot:
		return NewScreenshotGrabber(), nil
	case BackendVova:
		return NewVovaGrabber(), nil
	case BackendGDI:
		return NewGDIGrabber()
	default:
		return nil, fmt.Errorf("capture: unknown backend %q", name)
	}
}

// DisplayRegion returns the full bounds of display index as a Region.
func DisplayRegion(index int) (Region, error) {
	n := kbscreenshot.NumActiveDisplays()
	if n == 0 {
		return Region{}, fmt.Errorf("%w: no active displays", ErrDeviceUnavailable)
	}
	if index < 0 || index >= n {
		return Region{}, fmt.Errorf("%w: display %d of %d", ErrInvalidRegion, index, n)
	}
	return RegionFromRect(kbscreenshot.GetDisplayBounds(index)), nil
}
