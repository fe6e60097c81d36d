package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pixel-overlay-go/domain/detect"
	"github.com/soocke/pixel-overlay-go/domain/settings"
)

func cocoEntity() detect.Entity {
	lms := make([]detect.Landmark, 17)
	for i := range lms {
		lms[i] = detect.Landmark{Name: detect.COCOPose.Landmarks[i], X: 0.5, Y: 0.5}
	}
	lms[0] = detect.Landmark{Name: "nose", X: 0.10, Y: 0.20}
	lms[5] = detect.Landmark{Name: "left_shoulder", X: 0.30, Y: 0.40}
	lms[6] = detect.Landmark{Name: "right_shoulder", X: 0.70, Y: 0.40}
	lms[16] = detect.Landmark{Name: "right_ankle", X: 0.905, Y: 0.95}
	return detect.Entity{
		Class:      detect.ClassPerson,
		Confidence: 0.9,
		Shape:      detect.ShapeLandmarks,
		Landmarks:  lms,
		Topology:   detect.COCOPose,
	}
}

func TestLandmarkBounds_Exact(t *testing.T) {
	e := cocoEntity()
	// x: 0.10*200=20, 0.905*200=181; y: 0.20*100=20, 0.95*100=95
	got := LandmarkBounds(e.Landmarks, 200, 100)
	assert.Equal(t, image.Rect(20, 20, 181, 95), got)
	assert.Equal(t, image.Rectangle{}, LandmarkBounds(nil, 200, 100))
}

func TestLandmarkBounds_Truncates(t *testing.T) {
	lms := []detect.Landmark{{X: 0.999, Y: 0.333}, {X: 0.0015, Y: 0.6666}}
	got := LandmarkBounds(lms, 1000, 1000)
	assert.Equal(t, image.Rect(1, 333, 999, 666), got)
}

func TestHeadRegion_Exact(t *testing.T) {
	head := HeadRegion(image.Rect(100, 50, 300, 450))
	assert.Equal(t, image.Rect(125, 50, 175, 100), head)
	assert.Equal(t, 50, head.Dx())
	assert.Equal(t, 50, head.Dy())
}

func TestSegments_LevelOfDetail(t *testing.T) {
	e := cocoEntity()
	assert.Empty(t, Segments(e, settings.BoundingBoxOnly, 200, 100))
	assert.Len(t, Segments(e, settings.PartialSkeleton, 200, 100), 6)
	assert.Len(t, Segments(e, settings.FullSkeleton, 200, 100), 19)

	partial := Segments(e, settings.PartialSkeleton, 200, 100)
	// first partial pair is the shoulders
	assert.Equal(t, Segment{From: image.Pt(60, 40), To: image.Pt(140, 40)}, partial[0])

	box := detect.Entity{Shape: detect.ShapeBox, Box: image.Rect(0, 0, 10, 10)}
	assert.Empty(t, Segments(box, settings.FullSkeleton, 200, 100))
}

func TestDerive_OrderAndKinds(t *testing.T) {
	entities := []detect.Entity{
		{Class: detect.ClassPerson, Shape: detect.ShapeBox, Box: image.Rect(100, 50, 300, 450)},
		{Class: detect.ClassObject, Shape: detect.ShapeBox, Box: image.Rect(0, 0, 5, 5)},
		cocoEntity(),
		{Class: detect.ClassBodyPart, Shape: detect.ShapeBox, Box: image.Rect(1, 2, 3, 4)},
	}
	got := Derive(entities, 200, 100)
	require.Len(t, got, 4)
	assert.Equal(t, Region{Kind: KindBody, Box: image.Rect(100, 50, 300, 450)}, got[0])
	assert.Equal(t, Region{Kind: KindHead, Box: image.Rect(125, 50, 175, 100)}, got[1])
	assert.Equal(t, Region{Kind: KindBody, Box: image.Rect(20, 20, 181, 95)}, got[2])
	assert.Equal(t, Region{Kind: KindBody, Box: image.Rect(1, 2, 3, 4)}, got[3])

	assert.Empty(t, Derive(nil, 200, 100))
}

func TestRegion_Target(t *testing.T) {
	r := Region{Kind: KindHead, Box: image.Rect(125, 50, 175, 100)}
	assert.Equal(t, image.Pt(150, 75), r.Target())
}
