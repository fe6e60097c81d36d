package settings

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOverlay_Clamp(t *testing.T) {
	cases := []struct {
		name string
		in   Overlay
		want Overlay
	}{
		{"defaults untouched", DefaultOverlay(), DefaultOverlay()},
		{"confidence high", Overlay{DetectionConfidence: 1.5, LineThickness: 2, LevelOfDetail: FullSkeleton}, Overlay{1, 2, FullSkeleton}},
		{"confidence negative", Overlay{DetectionConfidence: -0.1, LineThickness: 2}, Overlay{0, 2, BoundingBoxOnly}},
		{"confidence NaN", Overlay{DetectionConfidence: math.NaN(), LineThickness: 2}, Overlay{0, 2, BoundingBoxOnly}},
		{"thickness zero", Overlay{DetectionConfidence: 0.5, LineThickness: 0}, Overlay{0.5, 1, BoundingBoxOnly}},
		{"thickness huge", Overlay{DetectionConfidence: 0.5, LineThickness: 99}, Overlay{0.5, 10, BoundingBoxOnly}},
		{"lod out of range", Overlay{DetectionConfidence: 0.5, LineThickness: 3, LevelOfDetail: 7}, Overlay{0.5, 3, FullSkeleton}},
		{"lod negative", Overlay{DetectionConfidence: 0.5, LineThickness: 3, LevelOfDetail: -2}, Overlay{0.5, 3, BoundingBoxOnly}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Clamp())
		})
	}
}

func TestLevelOfDetail_Encoding(t *testing.T) {
	var o Overlay
	require.NoError(t, json.Unmarshal([]byte(`{"detection_confidence":0.4,"line_thickness":3,"level_of_detail":1}`), &o))
	assert.Equal(t, PartialSkeleton, o.LevelOfDetail)
	require.NoError(t, json.Unmarshal([]byte(`{"level_of_detail":"bbox"}`), &o))
	assert.Equal(t, BoundingBoxOnly, o.LevelOfDetail)

	b, err := json.Marshal(Overlay{LevelOfDetail: FullSkeleton})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"level_of_detail":"full"`)

	var y Overlay
	require.NoError(t, yaml.Unmarshal([]byte("level_of_detail: partial\nline_thickness: 4\n"), &y))
	assert.Equal(t, PartialSkeleton, y.LevelOfDetail)
	assert.Equal(t, 4, y.LineThickness)
}

func TestBindings_Normalize(t *testing.T) {
	assert.Equal(t, Bindings{SnapBodyKey: "F5", SnapHeadKey: "F2"}, Bindings{SnapBodyKey: " f5 "}.Normalize())
}

func TestStore_UpdateAndSubscribe(t *testing.T) {
	s := NewStore(nil, Overlay{DetectionConfidence: 2, LineThickness: 2}, Bindings{})
	snap := s.Snapshot()
	assert.Equal(t, 1.0, snap.Overlay.DetectionConfidence)
	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, DefaultSnapBodyKey, snap.Bindings.SnapBodyKey)

	var got []uint64
	unsub := s.Subscribe(func(prev, next Snapshot) {
		got = append(got, next.Version)
		assert.Equal(t, prev.Version+1, next.Version)
	})
	s.SetOverlay(Overlay{DetectionConfidence: 0.3, LineThickness: 0, LevelOfDetail: PartialSkeleton})
	assert.Equal(t, 1, s.Snapshot().Overlay.LineThickness)
	s.Update(func(sn *Snapshot) { sn.Overlay.DetectionConfidence = -1 })
	assert.Zero(t, s.Snapshot().Overlay.DetectionConfidence)
	unsub()
	s.SetBindings(Bindings{SnapBodyKey: "x", SnapHeadKey: "y"})
	assert.Equal(t, []uint64{2, 3}, got)
	assert.Equal(t, uint64(4), s.Version())
	assert.Equal(t, "X", s.Snapshot().Bindings.SnapBodyKey)
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore(nil, DefaultOverlay(), DefaultBindings())
	snap := s.Snapshot()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.SetOverlay(Overlay{DetectionConfidence: 0.1 * float64(i%10), LineThickness: 1 + i})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, DefaultOverlay(), snap.Overlay)
	assert.Equal(t, uint64(9), s.Version())
}
