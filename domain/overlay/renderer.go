// Package overlay draws derived regions and skeleton lines onto a
// transparent surface the size of the capture region.
package overlay

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/soocke/pixel-overlay-go/domain/geometry"
	"github.com/soocke/pixel-overlay-go/domain/settings"
)

var (
	BodyColor     = color.RGBA{R: 255, A: 255}
	HeadColor     = color.RGBA{G: 255, A: 255}
	SkeletonColor = color.RGBA{G: 255, A: 255}
)

// KindColor returns the stroke color of a region kind.
func KindColor(k geometry.Kind) color.RGBA {
	if k == geometry.KindHead {
		return HeadColor
	}
	return BodyColor
}

// Renderer owns the one long-lived overlay image. Each Render starts from a
// fully transparent surface, so output depends only on its arguments.
// Not safe for concurrent use.
type Renderer struct {
	img *image.RGBA
	dc  *gg.Context
}

func NewRenderer(width, height int) *Renderer {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Renderer{img: img, dc: gg.NewContextForRGBA(img)}
}

// Bounds is the surface rectangle.
func (r *Renderer) Bounds() image.Rectangle { return r.img.Rect }

// Clear wipes the surface and returns it.
func (r *Renderer) Clear() *image.RGBA {
	clear(r.img.Pix)
	return r.img
}

// Render draws regions and segments with the thickness from ov. The
// returned image is reused by the next call.
func (r *Renderer) Render(regions []geometry.Region, segments []geometry.Segment, ov settings.Overlay) *image.RGBA {
	r.Clear()
	if len(regions) == 0 && len(segments) == 0 {
		return r.img
	}
	ov = ov.Clamp()
	dc := r.dc
	lw := float64(ov.LineThickness)
	dc.SetLineWidth(lw)
	dc.SetLineCapSquare()

	for _, reg := range regions {
		b := reg.Box.Canon()
		dc.SetColor(KindColor(reg.Kind))
		x, y, w, h := float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy())
		if b.Empty() {
			// A zero-width or zero-height box is a line or a point; its
			// stroke is the box grown by half the line width.
			dc.DrawRectangle(x-lw/2, y-lw/2, w+lw, h+lw)
			dc.Fill()
			continue
		}
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
	}
	if len(segments) > 0 {
		dc.SetColor(SkeletonColor)
		for _, s := range segments {
			dc.DrawLine(float64(s.From.X), float64(s.From.Y), float64(s.To.X), float64(s.To.Y))
		}
		dc.Stroke()
	}
	return r.img
}
