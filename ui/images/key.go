package images

import (
	"fmt"
	"image"
	"image/color"
)

// TransparentKey is the colour the overlay window treats as see-through.
// Nothing the renderer draws uses it.
var TransparentKey = color.RGBA{0x00, 0x80, 0x80, 0xFF}

// Hex formats c as a Tk colour string.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// KeyTransparent writes src into dst with every fully transparent pixel
// replaced by key and every other pixel made opaque. A window whose
// transparent colour is key then shows only the drawn strokes, without the
// dark fringe that blending antialiased edges against key would leave.
// dst is reallocated when its bounds differ from src.
func KeyTransparent(dst, src *image.RGBA, key color.RGBA) *image.RGBA {
	if dst == nil || dst.Rect != src.Rect {
		dst = image.NewRGBA(src.Rect)
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := 0; i < len(s); i += 4 {
			a := s[i+3]
			switch a {
			case 0:
				d[i], d[i+1], d[i+2], d[i+3] = key.R, key.G, key.B, 0xFF
			case 0xFF:
				d[i], d[i+1], d[i+2], d[i+3] = s[i], s[i+1], s[i+2], 0xFF
			default:
				// un-premultiply
				d[i] = uint8(uint16(s[i]) * 0xFF / uint16(a))
				d[i+1] = uint8(uint16(s[i+1]) * 0xFF / uint16(a))
				d[i+2] = uint8(uint16(s[i+2]) * 0xFF / uint16(a))
				d[i+3] = 0xFF
			}
		}
	}
	return dst
}
