package capture

import (
	"image"

	vovascreenshot "github.com/vova616/screenshot"
)

// VovaGrabber captures through github.com/vova616/screenshot. It only sees
// the primary screen.
type VovaGrabber struct{}

func NewVovaGrabber() *VovaGrabber { return &VovaGrabber{} }

func (VovaGrabber) Bounds() (image.Rectangle, error) {
	return vovascreenshot.ScreenRect()
}

func (VovaGrabber) Grab(rect image.Rectangle, dst *Frame) error {
	img, err := vovascreenshot.CaptureRect(rect)
	if err != nil {
		return err
	}
	return copyRGBA(dst, img)
}
