// Package yolo decodes YOLOv8 style output tensors. Values are laid out
// channel major: channel c of anchor i is out[c*anchors+i].
package yolo

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"

	"github.com/soocke/pixel-overlay-go/domain/detect"
)

const (
	// DefaultInputSize is the square model input of stock YOLOv8 exports.
	DefaultInputSize = 640
	DefaultIoU       = 0.45
	COCOClasses      = 80
	COCOKeypoints    = 17
)

// Decoder converts raw model output into entities in frame pixels.
type Decoder struct {
	// InputSize is the square side the frame was stretched to before inference.
	InputSize int
	// IoU is the overlap above which a lower scored box of the same class is dropped.
	IoU float64
	// BodyPartIDs marks class ids that are reported as detect.ClassBodyPart.
	BodyPartIDs map[int]bool
}

// NewDecoder returns a decoder with stock YOLOv8 settings.
func NewDecoder() *Decoder {
	return &Decoder{InputSize: DefaultInputSize, IoU: DefaultIoU}
}

// Boxes decodes a [1, 4+classes, anchors] detection tensor.
func (d *Decoder) Boxes(out []float32, anchors, classes int, minScore float32, frameW, frameH int) ([]detect.Entity, error) {
	channels := 4 + classes
	if classes <= 0 || anchors <= 0 || len(out) < channels*anchors {
		return nil, fmt.Errorf("%w: box tensor has %d values, want %dx%d", detect.ErrMalformedFrame, len(out), channels, anchors)
	}
	sx, sy := d.scale(frameW, frameH)
	var entities []detect.Entity
	for i := 0; i < anchors; i++ {
		best, bestID := float32(0), -1
		for c := 0; c < classes; c++ {
			if s := out[(4+c)*anchors+i]; s > best {
				best, bestID = s, c
			}
		}
		if bestID < 0 || best < minScore {
			continue
		}
		box := d.box(out, anchors, i, sx, sy, frameW, frameH)
		if box.Empty() {
			continue
		}
		entities = append(entities, detect.Entity{
			Class:      d.classify(bestID),
			ClassID:    bestID,
			Confidence: best,
			Shape:      detect.ShapeBox,
			Box:        box,
		})
	}
	return detect.SuppressOverlaps(entities, d.iou()), nil
}

// Pose decodes a [1, 5+3*keypoints, anchors] pose tensor into person
// entities carrying COCO landmarks normalized to the frame.
func (d *Decoder) Pose(out []float32, anchors, keypoints int, minScore float32, frameW, frameH int) ([]detect.Entity, error) {
	channels := 5 + 3*keypoints
	if keypoints != COCOKeypoints || anchors <= 0 || len(out) < channels*anchors {
		return nil, fmt.Errorf("%w: pose tensor has %d values, want %dx%d", detect.ErrMalformedFrame, len(out), channels, anchors)
	}
	sx, sy := d.scale(frameW, frameH)
	fw, fh := float32(frameW), float32(frameH)
	var entities []detect.Entity
	for i := 0; i < anchors; i++ {
		score := out[4*anchors+i]
		if score < minScore {
			continue
		}
		box := d.box(out, anchors, i, sx, sy, frameW, frameH)
		if box.Empty() {
			continue
		}
		lms := make([]detect.Landmark, keypoints)
		for k := 0; k < keypoints; k++ {
			base := 5 + 3*k
			x := clamp01(out[base*anchors+i] * sx / fw)
			y := clamp01(out[(base+1)*anchors+i] * sy / fh)
			lms[k] = detect.Landmark{
				Name:       detect.COCOPose.Landmarks[k],
				X:          float64(x),
				Y:          float64(y),
				Visibility: out[(base+2)*anchors+i],
			}
		}
		entities = append(entities, detect.Entity{
			Class:      detect.ClassPerson,
			ClassID:    detect.PersonClassID,
			Confidence: score,
			Shape:      detect.ShapeLandmarks,
			Landmarks:  lms,
			Topology:   detect.COCOPose,
			Box:        box,
		})
	}
	return detect.SuppressOverlaps(entities, d.iou()), nil
}

func (d *Decoder) box(out []float32, anchors, i int, sx, sy float32, frameW, frameH int) image.Rectangle {
	cx, cy := out[i], out[anchors+i]
	w, h := out[2*anchors+i], out[3*anchors+i]
	x1 := math32.Max(0, (cx-w/2)*sx)
	y1 := math32.Max(0, (cy-h/2)*sy)
	x2 := math32.Min(float32(frameW), (cx+w/2)*sx)
	y2 := math32.Min(float32(frameH), (cy+h/2)*sy)
	return image.Rect(int(math32.Round(x1)), int(math32.Round(y1)), int(math32.Round(x2)), int(math32.Round(y2)))
}

func (d *Decoder) scale(frameW, frameH int) (float32, float32) {
	size := d.InputSize
	if size <= 0 {
		size = DefaultInputSize
	}
	return float32(frameW) / float32(size), float32(frameH) / float32(size)
}

func (d *Decoder) iou() float64 {
	if d.IoU <= 0 || d.IoU > 1 {
		return DefaultIoU
	}
	return d.IoU
}

func (d *Decoder) classify(id int) detect.Class {
	switch {
	case id == detect.PersonClassID:
		return detect.ClassPerson
	case d.BodyPartIDs[id]:
		return detect.ClassBodyPart
	default:
		return detect.ClassObject
	}
}

func clamp01(v float32) float32 {
	return math32.Min(1, math32.Max(0, v))
}
