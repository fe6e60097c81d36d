package capture

import (
	"sync"
	"time"
)

// Frames are recycled through a sync.Pool so a tick loop running every 30ms
// keeps reusing a handful of backing slices instead of allocating a new
// width*height*4 buffer per tick. Callers return frames with Frame.Release
// once the tick has finished rendering; a frame that is never released is
// simply collected by the GC.

var framePool sync.Pool // stores *Frame

// acquireFrame returns a pooled frame sized to w x h. Pix length is exactly
// w*h*4 and Stride is w*4.
func acquireFrame(w, h int) *Frame {
	if w <= 0 || h <= 0 {
		return &Frame{Order: ChannelOrderBGRA}
	}
	needed := w * h * 4
	var f *Frame
	if v := framePool.Get(); v != nil {
		f = v.(*Frame)
	}
	if f == nil || cap(f.Pix) < needed {
		f = &Frame{Pix: make([]byte, needed)}
	} else {
		f.Pix = f.Pix[:needed]
	}
	f.Width, f.Height, f.Stride = w, h, w*4
	f.Order = ChannelOrderBGRA
	f.Sequence = 0
	f.CapturedAt = time.Time{}
	f.pooled = true
	return f
}

func recycleFrame(f *Frame) {
	if f == nil || f.Pix == nil {
		return
	}
	framePool.Put(f)
}
