package capture

import (
	"fmt"
	"image"
)

// copyRGBA writes src into dst swapping R and B so dst ends up BGRA. src may
// carry a non-zero Rect.Min and a padded stride.
func copyRGBA(dst *Frame, src *image.RGBA) error {
	if src == nil {
		return fmt.Errorf("nil source image")
	}
	b := src.Bounds()
	if b.Dx() != dst.Width || b.Dy() != dst.Height {
		return fmt.Errorf("source %dx%d does not match frame %dx%d", b.Dx(), b.Dy(), dst.Width, dst.Height)
	}
	for y := 0; y < dst.Height; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := y * dst.Stride
		row := src.Pix[si : si+dst.Width*4]
		out := dst.Pix[di : di+dst.Width*4]
		for x := 0; x < len(row); x += 4 {
			out[x+0] = row[x+2]
			out[x+1] = row[x+1]
			out[x+2] = row[x+0]
			out[x+3] = 0xFF
		}
	}
	return nil
}
