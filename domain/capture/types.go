package capture

import (
	"fmt"
	"image"
	"time"
)

// ChannelOrder names the byte layout of a Frame pixel.
type ChannelOrder int

const (
	// ChannelOrderBGRA is the only order produced by this package: B, G, R, A per pixel.
	ChannelOrderBGRA ChannelOrder = iota
)

func (o ChannelOrder) String() string {
	switch o {
	case ChannelOrderBGRA:
		return "bgra"
	default:
		return "unknown"
	}
}

// Region is the screen rectangle read every tick, in virtual screen pixels.
// It is resolved once at startup and never changes for the session.
type Region struct {
	Top    int `json:"top" yaml:"top"`
	Left   int `json:"left" yaml:"left"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// RegionFromRect converts a screen rectangle into a Region.
func RegionFromRect(r image.Rectangle) Region {
	r = r.Canon()
	return Region{Top: r.Min.Y, Left: r.Min.X, Width: r.Dx(), Height: r.Dy()}
}

// Rect returns the region as a screen rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height)
}

// Origin is the top-left corner in screen coordinates.
func (r Region) Origin() image.Point { return image.Pt(r.Left, r.Top) }

// Validate reports whether the region is non-empty and fully inside screen.
func (r Region) Validate(screen image.Rectangle) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: width=%d height=%d", ErrInvalidRegion, r.Width, r.Height)
	}
	if screen.Empty() {
		return fmt.Errorf("%w: empty screen bounds", ErrDeviceUnavailable)
	}
	if !r.Rect().In(screen) {
		return fmt.Errorf("%w: region=%v screen=%v", ErrOutOfBounds, r.Rect(), screen)
	}
	return nil
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.Left, r.Top)
}

// Frame is a dense BGRA pixel buffer for one capture. It belongs to the tick
// that produced it and must be released once that tick has rendered.
type Frame struct {
	Pix        []byte
	Stride     int
	Width      int
	Height     int
	Order      ChannelOrder
	CapturedAt time.Time
	Sequence   uint64

	pooled bool
}

// NewFrame allocates an unpooled frame. Mostly useful for tests and callers
// that build frames from decoded images.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{Pix: make([]byte, width*height*4), Stride: width * 4, Width: width, Height: height, Order: ChannelOrderBGRA}
}

// Bounds returns the frame rectangle anchored at the origin.
func (f *Frame) Bounds() image.Rectangle {
	if f == nil {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, f.Width, f.Height)
}

// Offset returns the byte offset of pixel (x, y).
func (f *Frame) Offset(x, y int) int { return y*f.Stride + x*4 }

// Release hands the buffer back to the pool. The frame must not be used afterwards.
func (f *Frame) Release() {
	if f == nil || !f.pooled {
		return
	}
	f.pooled = false
	recycleFrame(f)
}

// Stats summarises capture behaviour for instrumentation.
type Stats struct {
	Captures    uint64
	Failures    uint64
	AvgCapture  time.Duration
	LastCapture time.Time
	Sequence    uint64
}
