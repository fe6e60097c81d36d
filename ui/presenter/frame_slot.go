package presenter

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/soocke/pixel-overlay-go/ui/images"
)

type encodedFrame struct {
	seq uint64
	png []byte
}

// FrameSlot is the overlay surface handed to the loop. Present runs on the
// loop goroutine and encodes the overlay; the Tk thread picks up the newest
// encoding with Take. Frames never queue: an unread frame is replaced.
type FrameSlot struct {
	key color.RGBA

	mu    sync.Mutex
	keyed *image.RGBA
	seq   uint64

	latest atomic.Pointer[encodedFrame]
}

// NewFrameSlot keys transparent pixels to key, the window's transparent colour.
func NewFrameSlot(key color.RGBA) *FrameSlot {
	return &FrameSlot{key: key}
}

func (s *FrameSlot) Present(img *image.RGBA) error {
	s.mu.Lock()
	s.keyed = images.KeyTransparent(s.keyed, img, s.key)
	s.seq++
	f := &encodedFrame{seq: s.seq, png: images.EncodePNG(s.keyed)}
	s.mu.Unlock()
	s.latest.Store(f)
	return nil
}

// Take returns the newest frame if it is newer than seen.
func (s *FrameSlot) Take(seen uint64) (png []byte, seq uint64, ok bool) {
	f := s.latest.Load()
	if f == nil || f.seq <= seen {
		return nil, seen, false
	}
	return f.png, f.seq, true
}
