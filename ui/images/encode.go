package images

import (
	"bytes"
	"image"
	"image/png"
	"sync"
)

type encoderPool struct{ p sync.Pool }

func (e *encoderPool) Get() *png.EncoderBuffer {
	b, _ := e.p.Get().(*png.EncoderBuffer)
	return b
}

func (e *encoderPool) Put(b *png.EncoderBuffer) { e.p.Put(b) }

// overlayEncoder is shared by every frame slot; overlay frames are encoded
// once per tick, so favour speed over size and reuse the zlib state.
var overlayEncoder = png.Encoder{CompressionLevel: png.BestSpeed, BufferPool: &encoderPool{}}

// EncodePNG returns the PNG bytes of a keyed overlay frame, or nil for a
// nil image or a failed encode.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := overlayEncoder.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
