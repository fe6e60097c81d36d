package capture

import (
	"errors"
	"image"

	kbscreenshot "github.com/kbinani/screenshot"
)

// ScreenshotGrabber captures through github.com/kbinani/screenshot, which
// covers Windows, macOS and X11.
type ScreenshotGrabber struct{}

// NewScreenshotGrabber returns the default cross-platform backend.
func NewScreenshotGrabber() *ScreenshotGrabber { return &ScreenshotGrabber{} }

// Bounds returns the union of all active display bounds.
func (ScreenshotGrabber) Bounds() (image.Rectangle, error) {
	n := kbscreenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, errors.New("no active displays found")
	}
	union := kbscreenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(kbscreenshot.GetDisplayBounds(i))
	}
	return union, nil
}

func (ScreenshotGrabber) Grab(rect image.Rectangle, dst *Frame) error {
	img, err := kbscreenshot.CaptureRect(rect)
	if err != nil {
		return err
	}
	return copyRGBA(dst, img)
}
