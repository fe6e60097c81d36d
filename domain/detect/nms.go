package detect

import (
	"image"
	"sort"
)

// IoU returns the intersection over union of two rectangles.
func IoU(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	ia := float64(inter.Dx() * inter.Dy())
	union := float64(a.Dx()*a.Dy()+b.Dx()*b.Dy()) - ia
	if union <= 0 {
		return 0
	}
	return ia / union
}

// SuppressOverlaps performs greedy per-class non-maximum suppression on Box.
// The result is ordered by descending confidence, which becomes the
// detection order seen by later stages.
func SuppressOverlaps(entities []Entity, threshold float64) []Entity {
	if len(entities) < 2 {
		return entities
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Confidence > entities[j].Confidence
	})
	kept := make([]Entity, 0, len(entities))
	dropped := make([]bool, len(entities))
	for i := range entities {
		if dropped[i] {
			continue
		}
		kept = append(kept, entities[i])
		for j := i + 1; j < len(entities); j++ {
			if dropped[j] || entities[j].ClassID != entities[i].ClassID {
				continue
			}
			if IoU(entities[i].Box, entities[j].Box) > threshold {
				dropped[j] = true
			}
		}
	}
	return kept
}
