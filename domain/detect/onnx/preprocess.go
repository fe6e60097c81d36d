package onnx

import (
	"image"

	"github.com/nfnt/resize"
)

// fillCHW stretches img to size x size and writes it into dst as planar
// RGB scaled to [0,1].
func fillCHW(dst []float32, img *image.RGBA, size int) {
	resized := resize.Resize(uint(size), uint(size), img, resize.Bilinear)
	plane := size * size
	if rgba, ok := resized.(*image.RGBA); ok {
		for y := 0; y < size; y++ {
			row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+size*4]
			for x := 0; x < size; x++ {
				i := y*size + x
				dst[i] = float32(row[x*4]) / 255
				dst[plane+i] = float32(row[x*4+1]) / 255
				dst[2*plane+i] = float32(row[x*4+2]) / 255
			}
		}
		return
	}
	b := resized.Bounds()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, bl, _ := resized.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := y*size + x
			dst[i] = float32(r>>8) / 255
			dst[plane+i] = float32(g>>8) / 255
			dst[2*plane+i] = float32(bl>>8) / 255
		}
	}
}
