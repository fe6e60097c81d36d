package overlay

import (
	"image"
	"sync"
)

// Surface shows a rendered overlay to the user. Present must copy what it
// needs before returning; the image is reused on the next tick.
type Surface interface {
	Present(img *image.RGBA) error
}

// MemorySurface keeps the last presented image. Used headless and in tests.
type MemorySurface struct {
	mu       sync.Mutex
	last     *image.RGBA
	presents int
}

func NewMemorySurface() *MemorySurface { return &MemorySurface{} }

func (m *MemorySurface) Present(img *image.RGBA) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil || m.last.Rect != img.Rect {
		m.last = image.NewRGBA(img.Rect)
	}
	copy(m.last.Pix, img.Pix)
	m.presents++
	return nil
}

// Last returns a copy of the most recent image, or nil.
func (m *MemorySurface) Last() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return nil
	}
	out := image.NewRGBA(m.last.Rect)
	copy(out.Pix, m.last.Pix)
	return out
}

func (m *MemorySurface) Presents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presents
}

// IsTransparent reports whether every pixel of img has zero alpha.
func IsTransparent(img *image.RGBA) bool {
	if img == nil {
		return true
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}
