package detect

import (
	"fmt"
	"image"

	"github.com/soocke/pixel-overlay-go/domain/capture"
)

// ValidateFrame rejects frames a detector cannot read.
func ValidateFrame(f *capture.Frame) error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrMalformedFrame)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrMalformedFrame, f.Width, f.Height)
	}
	if f.Order != capture.ChannelOrderBGRA {
		return fmt.Errorf("%w: channel order %s", ErrMalformedFrame, f.Order)
	}
	if f.Stride < f.Width*4 || len(f.Pix) < f.Stride*(f.Height-1)+f.Width*4 {
		return fmt.Errorf("%w: buffer %d bytes stride %d for %dx%d", ErrMalformedFrame, len(f.Pix), f.Stride, f.Width, f.Height)
	}
	return nil
}

// BGRAToRGB writes f as packed RGB (3 bytes per pixel, no row padding) into
// dst, growing it when too small, and returns the filled slice.
func BGRAToRGB(dst []byte, f *capture.Frame) ([]byte, error) {
	if err := ValidateFrame(f); err != nil {
		return dst, err
	}
	n := f.Width * f.Height * 3
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	o := 0
	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*f.Stride : y*f.Stride+f.Width*4]
		for x := 0; x < len(row); x += 4 {
			dst[o+0] = row[x+2]
			dst[o+1] = row[x+1]
			dst[o+2] = row[x+0]
			o += 3
		}
	}
	return dst, nil
}

// RGBAImage converts f into an opaque *image.RGBA.
func RGBAImage(f *capture.Frame) (*image.RGBA, error) {
	if err := ValidateFrame(f); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*f.Stride : y*f.Stride+f.Width*4]
		out := img.Pix[y*img.Stride : y*img.Stride+f.Width*4]
		for x := 0; x < len(row); x += 4 {
			out[x+0] = row[x+2]
			out[x+1] = row[x+1]
			out[x+2] = row[x+0]
			out[x+3] = 0xFF
		}
	}
	return img, nil
}
