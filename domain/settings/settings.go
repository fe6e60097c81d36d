// Package settings holds the user tunable overlay values and key bindings.
// The loop reads an immutable Snapshot at the start of every tick; writers
// publish a new snapshot through Store.
package settings

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// LevelOfDetail controls how much skeleton is drawn.
type LevelOfDetail int

const (
	BoundingBoxOnly LevelOfDetail = iota
	PartialSkeleton
	FullSkeleton
)

func (l LevelOfDetail) String() string {
	switch l {
	case BoundingBoxOnly:
		return "bbox"
	case PartialSkeleton:
		return "partial"
	case FullSkeleton:
		return "full"
	default:
		return fmt.Sprintf("lod(%d)", int(l))
	}
}

// ParseLevelOfDetail accepts names and numeric levels. Unknown input falls
// back to FullSkeleton.
func ParseLevelOfDetail(s string) LevelOfDetail {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bbox", "box", "low", "0":
		return BoundingBoxOnly
	case "partial", "medium", "1":
		return PartialSkeleton
	case "full", "high", "2":
		return FullSkeleton
	}
	return FullSkeleton
}

// MarshalText encodes the level by name so JSON and YAML stay readable.
func (l LevelOfDetail) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText accepts either a name or a number.
func (l *LevelOfDetail) UnmarshalText(b []byte) error {
	*l = ParseLevelOfDetail(string(b))
	return nil
}

// UnmarshalJSON additionally accepts bare numbers, clamping out of range values.
func (l *LevelOfDetail) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*l = LevelOfDetail(n).Clamp()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("level of detail: %w", err)
	}
	*l = ParseLevelOfDetail(s)
	return nil
}

// Clamp pins l into the defined range.
func (l LevelOfDetail) Clamp() LevelOfDetail {
	if l < BoundingBoxOnly {
		return BoundingBoxOnly
	}
	if l > FullSkeleton {
		return FullSkeleton
	}
	return l
}

const (
	DefaultConfidence    = 0.6
	DefaultLineThickness = 2
	MinLineThickness     = 1
	MaxLineThickness     = 10
	DefaultSnapBodyKey   = "F1"
	DefaultSnapHeadKey   = "F2"
)

// Overlay holds the per tick detection and drawing settings.
type Overlay struct {
	DetectionConfidence float64       `json:"detection_confidence" yaml:"detection_confidence"`
	LineThickness       int           `json:"line_thickness" yaml:"line_thickness"`
	LevelOfDetail       LevelOfDetail `json:"level_of_detail" yaml:"level_of_detail"`
}

func DefaultOverlay() Overlay {
	return Overlay{
		DetectionConfidence: DefaultConfidence,
		LineThickness:       DefaultLineThickness,
		LevelOfDetail:       FullSkeleton,
	}
}

// Clamp returns o with every field pinned into its documented range.
func (o Overlay) Clamp() Overlay {
	switch {
	case math.IsNaN(o.DetectionConfidence) || o.DetectionConfidence < 0:
		o.DetectionConfidence = 0
	case o.DetectionConfidence > 1:
		o.DetectionConfidence = 1
	}
	if o.LineThickness < MinLineThickness {
		o.LineThickness = MinLineThickness
	}
	if o.LineThickness > MaxLineThickness {
		o.LineThickness = MaxLineThickness
	}
	o.LevelOfDetail = o.LevelOfDetail.Clamp()
	return o
}

// Bindings names the keys that latch the snap triggers.
type Bindings struct {
	SnapBodyKey string `json:"snap_body_key" yaml:"snap_body_key"`
	SnapHeadKey string `json:"snap_head_key" yaml:"snap_head_key"`
}

func DefaultBindings() Bindings {
	return Bindings{SnapBodyKey: DefaultSnapBodyKey, SnapHeadKey: DefaultSnapHeadKey}
}

// Normalize upper-cases key names and fills blanks with defaults.
func (b Bindings) Normalize() Bindings {
	b.SnapBodyKey = strings.ToUpper(strings.TrimSpace(b.SnapBodyKey))
	b.SnapHeadKey = strings.ToUpper(strings.TrimSpace(b.SnapHeadKey))
	if b.SnapBodyKey == "" {
		b.SnapBodyKey = DefaultSnapBodyKey
	}
	if b.SnapHeadKey == "" {
		b.SnapHeadKey = DefaultSnapHeadKey
	}
	return b
}

// Snapshot is one consistent view of all settings.
type Snapshot struct {
	Overlay  Overlay  `json:"overlay"`
	Bindings Bindings `json:"bindings"`
	Version  uint64   `json:"version"`
}
