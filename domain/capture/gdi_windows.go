//go:build windows

package capture

// GDI capture: BitBlt the screen into a temporary top-down DIB section and
// copy the BGRA rows straight into the pooled frame. GDI objects are created
// and freed per grab so nothing native outlives a tick.

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCxVirtualScreen = 78
	smCyVirtualScreen = 79
	srccopy           = 0x00CC0020
	captureBlt        = 0x40000000
	dibRGBColors      = 0
	biRgb             = 0
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	gdi32                  = windows.NewLazySystemDLL("gdi32.dll")
	procGetDC              = user32.NewProc("GetDC")
	procReleaseDC          = user32.NewProc("ReleaseDC")
	procGetSystemMetrics   = user32.NewProc("GetSystemMetrics")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procBitBlt             = gdi32.NewProc("BitBlt")
	procCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
)

type bitmapInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	_      [4]byte // one RGBQUAD placeholder (unused for 32-bit)
}

// GDIGrabber captures via BitBlt. The DIB layout is already BGRA, so no
// channel swizzle is needed.
type GDIGrabber struct{}

func NewGDIGrabber() (Grabber, error) {
	if err := procBitBlt.Find(); err != nil {
		return nil, fmt.Errorf("capture: gdi unavailable: %w", err)
	}
	return &GDIGrabber{}, nil
}

// Bounds returns the virtual screen spanning all monitors.
func (GDIGrabber) Bounds() (image.Rectangle, error) {
	x := int(getSystemMetric(smXVirtualScreen))
	y := int(getSystemMetric(smYVirtualScreen))
	w := int(getSystemMetric(smCxVirtualScreen))
	h := int(getSystemMetric(smCyVirtualScreen))
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid virtual screen size w=%d h=%d", w, h)
	}
	return image.Rect(x, y, x+w, y+h), nil
}

func (GDIGrabber) Grab(r image.Rectangle, dst *Frame) error {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid rect %v", r)
	}
	if w != dst.Width || h != dst.Height {
		return errors.New("frame size mismatch")
	}

	screenDC, _, err := procGetDC.Call(0)
	if screenDC == 0 {
		return fmt.Errorf("GetDC failed: %v", err)
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, err := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return fmt.Errorf("CreateCompatibleDC failed: %v", err)
	}
	defer procDeleteDC.Call(memDC)

	var bi bitmapInfo
	bi.Header.BiSize = uint32(unsafe.Sizeof(bi.Header))
	bi.Header.BiWidth = int32(w)
	bi.Header.BiHeight = -int32(h) // top-down
	bi.Header.BiPlanes = 1
	bi.Header.BiBitCount = 32
	bi.Header.BiCompression = biRgb
	bi.Header.BiSizeImage = uint32(w * h * 4)

	var bitsPtr unsafe.Pointer
	bmp, _, err := procCreateDIBSection.Call(memDC, uintptr(unsafe.Pointer(&bi)), dibRGBColors, uintptr(unsafe.Pointer(&bitsPtr)), 0, 0)
	if bmp == 0 || bitsPtr == nil {
		return fmt.Errorf("CreateDIBSection failed: %v", err)
	}
	defer procDeleteObject.Call(bmp)

	prev, _, err := procSelectObject.Call(memDC, bmp)
	if prev == 0 || prev == ^uintptr(0) {
		return fmt.Errorf("SelectObject failed: %v", err)
	}

	ok, _, err := procBitBlt.Call(memDC, 0, 0, uintptr(w), uintptr(h), screenDC, uintptr(r.Min.X), uintptr(r.Min.Y), srccopy|captureBlt)
	if ok == 0 {
		return fmt.Errorf("BitBlt failed x=%d y=%d w=%d h=%d: %v", r.Min.X, r.Min.Y, w, h, err)
	}

	src := unsafe.Slice((*byte)(bitsPtr), w*h*4)
	for y := 0; y < h; y++ {
		row := src[y*w*4 : (y+1)*w*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		copy(out, row)
		// alpha is undefined in a screen DIB; force opaque
		for x := 3; x < len(out); x += 4 {
			out[x] = 0xFF
		}
	}
	return nil
}

func getSystemMetric(idx int) int32 {
	v, _, _ := procGetSystemMetrics.Call(uintptr(idx))
	return int32(v)
}
