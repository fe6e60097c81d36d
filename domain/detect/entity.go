package detect

import "image"

// Class is the coarse classification of a detected entity.
type Class int

const (
	ClassObject Class = iota
	ClassPerson
	ClassBodyPart
)

func (c Class) String() string {
	switch c {
	case ClassPerson:
		return "person"
	case ClassBodyPart:
		return "body_part"
	case ClassObject:
		return "object"
	default:
		return "unknown"
	}
}

// ParseClass maps a wire name to a Class. Unknown names are objects.
func ParseClass(s string) Class {
	switch s {
	case "person":
		return ClassPerson
	case "body_part", "bodypart", "head", "torso":
		return ClassBodyPart
	default:
		return ClassObject
	}
}

// Shape tells which geometry field of an Entity is populated.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeLandmarks
)

func (s Shape) String() string {
	if s == ShapeLandmarks {
		return "landmarks"
	}
	return "box"
}

// PersonClassID is the class id reserved for "person" in box-based results.
const PersonClassID = 0

// Landmark is one named joint in normalized [0,1] frame coordinates.
type Landmark struct {
	Name       string
	X, Y       float64
	Visibility float32
}

// Entity is one detector output for one frame. Landmark entities carry an
// ordered joint list described by Topology; box entities carry Box in frame
// pixels and ClassID.
type Entity struct {
	Class      Class
	ClassID    int
	Confidence float32
	Shape      Shape
	Landmarks  []Landmark
	Topology   *Topology
	Box        image.Rectangle
}

// HasLandmarks reports whether e is a usable landmark-based result.
func (e Entity) HasLandmarks() bool {
	return e.Shape == ShapeLandmarks && len(e.Landmarks) > 0
}

// FilterConfidence drops entities below min, keeping the input order. The
// input slice is reused.
func FilterConfidence(entities []Entity, min float64) []Entity {
	out := entities[:0]
	for _, e := range entities {
		if float64(e.Confidence) < min {
			continue
		}
		out = append(out, e)
	}
	return out
}
