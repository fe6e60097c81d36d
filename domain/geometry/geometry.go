// Package geometry derives drawable regions, skeleton segments and target
// points from detector output. Everything here is pure and deterministic.
package geometry

import (
	"image"

	"github.com/soocke/pixel-overlay-go/domain/detect"
	"github.com/soocke/pixel-overlay-go/domain/settings"
)

// Kind names what a derived region covers.
type Kind int

const (
	KindBody Kind = iota
	KindHead
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindHead:
		return "head"
	default:
		return "unknown"
	}
}

// Head box ratios relative to the body box.
const (
	HeadWidthRatio  = 0.25
	HeadHeightRatio = 0.125
)

// Region is a derived rectangle in frame pixels.
type Region struct {
	Kind Kind
	Box  image.Rectangle
}

// Target returns the centroid of the region.
func (r Region) Target() image.Point {
	return image.Pt((r.Box.Min.X+r.Box.Max.X)/2, (r.Box.Min.Y+r.Box.Max.Y)/2)
}

// Segment is one skeleton line in frame pixels.
type Segment struct {
	From, To image.Point
}

// scale truncates like int(x * w).
func scale(lm detect.Landmark, w, h int) image.Point {
	return image.Pt(int(lm.X*float64(w)), int(lm.Y*float64(h)))
}

// LandmarkBounds is the tightest box containing every landmark scaled to
// w x h. The returned rectangle spans [x_min, x_max] x [y_min, y_max].
func LandmarkBounds(lms []detect.Landmark, w, h int) image.Rectangle {
	if len(lms) == 0 {
		return image.Rectangle{}
	}
	p := scale(lms[0], w, h)
	r := image.Rectangle{Min: p, Max: p}
	for _, lm := range lms[1:] {
		p := scale(lm, w, h)
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// HeadRegion derives the head box from a body box: a quarter of the width,
// an eighth of the height, anchored at the top edge. The left edge sits half
// a head width inside the body, so body (100,50)-(300,450) gives head
// (125,50)-(175,100).
func HeadRegion(body image.Rectangle) image.Rectangle {
	body = body.Canon()
	w := int(float64(body.Dx()) * HeadWidthRatio)
	h := int(float64(body.Dy()) * HeadHeightRatio)
	x := body.Min.X + w/2
	return image.Rect(x, body.Min.Y, x+w, body.Min.Y+h)
}

// Segments returns the skeleton lines for e at the given level of detail.
// Box entities and BoundingBoxOnly produce none.
func Segments(e detect.Entity, lod settings.LevelOfDetail, w, h int) []Segment {
	if !e.HasLandmarks() || e.Topology == nil {
		return nil
	}
	var pairs [][2]int
	switch lod {
	case settings.FullSkeleton:
		pairs = e.Topology.Full
	case settings.PartialSkeleton:
		pairs = e.Topology.Partial
	default:
		return nil
	}
	segs := make([]Segment, 0, len(pairs))
	for _, p := range pairs {
		if p[0] >= len(e.Landmarks) || p[1] >= len(e.Landmarks) {
			continue
		}
		segs = append(segs, Segment{
			From: scale(e.Landmarks[p[0]], w, h),
			To:   scale(e.Landmarks[p[1]], w, h),
		})
	}
	return segs
}

// Derive maps entities to regions in detection order. Landmark entities
// yield a body region from their bounds. Person boxes yield a body region
// followed by its head region. Body part boxes yield a body region. Other
// classes are skipped.
func Derive(entities []detect.Entity, w, h int) []Region {
	var out []Region
	for _, e := range entities {
		switch {
		case e.HasLandmarks():
			out = append(out, Region{Kind: KindBody, Box: LandmarkBounds(e.Landmarks, w, h)})
		case e.Shape == detect.ShapeBox && isPerson(e):
			out = append(out,
				Region{Kind: KindBody, Box: e.Box},
				Region{Kind: KindHead, Box: HeadRegion(e.Box)},
			)
		case e.Shape == detect.ShapeBox && e.Class == detect.ClassBodyPart:
			out = append(out, Region{Kind: KindBody, Box: e.Box})
		}
	}
	return out
}

// SkeletonSegments collects segments for every landmark entity.
func SkeletonSegments(entities []detect.Entity, lod settings.LevelOfDetail, w, h int) []Segment {
	var out []Segment
	for _, e := range entities {
		out = append(out, Segments(e, lod, w, h)...)
	}
	return out
}

func isPerson(e detect.Entity) bool {
	return e.Class == detect.ClassPerson
}
