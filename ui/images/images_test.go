package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

var teal = TransparentKey

func TestHex(t *testing.T) {
	if got := Hex(TransparentKey); got != "#008080" {
		t.Fatalf("Hex = %q", got)
	}
}

func TestKeyTransparent(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 1))
	src.SetRGBA(1, 0, color.RGBA{255, 0, 0, 255})
	src.SetRGBA(2, 0, color.RGBA{0, 64, 0, 128}) // half covered green, premultiplied

	dst := KeyTransparent(nil, src, teal)
	if got := dst.RGBAAt(0, 0); got != teal {
		t.Fatalf("transparent pixel = %v, want key %v", got, teal)
	}
	if got := dst.RGBAAt(1, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("opaque pixel changed: %v", got)
	}
	if got := dst.RGBAAt(2, 0); got.G < 126 || got.A != 255 || got.R != 0 {
		t.Fatalf("edge pixel not un-premultiplied: %v", got)
	}

	again := KeyTransparent(dst, src, teal)
	if again != dst {
		t.Fatalf("matching dst should be reused")
	}
}

func TestKeyTransparent_ReallocatesOnSizeChange(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	out := KeyTransparent(dst, src, teal)
	if out == dst || out.Rect != src.Rect {
		t.Fatalf("expected new %v image, got %v", src.Rect, out.Rect)
	}
}

func TestEncodePNG_Decodes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{1, 2, 3, 255})
	b := EncodePNG(src)
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, g, bl, _ := img.At(1, 1).RGBA(); r>>8 != 1 || g>>8 != 2 || bl>>8 != 3 {
		t.Fatalf("pixel lost in round trip")
	}
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image should encode to nil")
	}
}

func TestEncodePNG_ReusedAcrossFrames(t *testing.T) {
	for i := range 3 {
		src := image.NewRGBA(image.Rect(0, 0, 4+i, 3))
		img, err := png.Decode(bytes.NewReader(EncodePNG(src)))
		if err != nil {
			t.Fatalf("frame %d: decode: %v", i, err)
		}
		if img.Bounds() != src.Rect {
			t.Fatalf("frame %d: bounds = %v, want %v", i, img.Bounds(), src.Rect)
		}
	}
}
