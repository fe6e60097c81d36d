package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pixel-overlay-go/domain/settings"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"detector": "onnx-pose",
		"model_path": "yolov8n-pose.onnx",
		"overlay": {"detection_confidence": 0.4, "line_thickness": 3, "level_of_detail": "partial"},
		"bindings": {"snap_body_key": "q"}
	}`), 0o644))
	cfg, err := Load(jsonPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "onnx-pose", cfg.Detector)
	assert.Equal(t, settings.PartialSkeleton, cfg.Overlay.LevelOfDetail)
	assert.Equal(t, "Q", cfg.Bindings.SnapBodyKey)
	assert.Equal(t, settings.DefaultSnapHeadKey, cfg.Bindings.SnapHeadKey)

	yamlPath := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("detector: remote\nregion_w: 800\nregion_h: 600\noverlay:\n  detection_confidence: 3\n  line_thickness: 2\n"), 0o644))
	cfg, err = Load(yamlPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.HasExplicitRegion())
	assert.Equal(t, 1.0, cfg.Overlay.DetectionConfidence)
}

func TestLoad_BadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte("{"), 0o644))
	cfg, err := Load(p)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate_Clamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickMillis = -5
	cfg.InputSize = 100
	cfg.IoUThreshold = 4
	cfg.InputSource = "telepathy"
	cfg.Overlay.LineThickness = 40
	cfg.RegionW = -1
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30, cfg.TickMillis)
	assert.Equal(t, 640, cfg.InputSize)
	assert.Equal(t, 0.45, cfg.IoUThreshold)
	assert.Equal(t, InputHook, cfg.InputSource)
	assert.Equal(t, settings.MaxLineThickness, cfg.Overlay.LineThickness)
	assert.False(t, cfg.HasExplicitRegion())
}

func TestValidate_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detector = "onnx-box"
	assert.Error(t, cfg.Validate())
	cfg.Detector = "magic"
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.json", "out.yml"} {
		p := filepath.Join(t.TempDir(), name)
		cfg := DefaultConfig()
		cfg.Overlay.LevelOfDetail = settings.BoundingBoxOnly
		require.NoError(t, cfg.Save(p))
		got, err := Load(p)
		require.NoError(t, err, name)
		require.NoError(t, got.Validate())
		assert.Equal(t, cfg, got, name)
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Detector = "magic"
	assert.Error(t, cfg.Save(p))
	assert.NoFileExists(t, p)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PIXEL_OVERLAY_DETECTOR":        "onnx-box",
		"PIXEL_OVERLAY_CONFIDENCE":      "0.75",
		"PIXEL_OVERLAY_LEVEL_OF_DETAIL": "bbox",
		"PIXEL_OVERLAY_TICK_MS":         "not-a-number",
		"PIXEL_OVERLAY_DRY_RUN":         "true",
	}
	cfg := DefaultConfig()
	cfg.ApplyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	assert.Equal(t, "onnx-box", cfg.Detector)
	assert.Equal(t, 0.75, cfg.Overlay.DetectionConfidence)
	assert.Equal(t, settings.BoundingBoxOnly, cfg.Overlay.LevelOfDetail)
	assert.Equal(t, 30, cfg.TickMillis)
	assert.True(t, cfg.DryRun)
}

func TestLoadDotenv(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("PIXEL_OVERLAY_TEST_ONLY=yes\n"), 0o644))
	t.Setenv("PIXEL_OVERLAY_TEST_ONLY", "")
	os.Unsetenv("PIXEL_OVERLAY_TEST_ONLY")
	require.NoError(t, LoadDotenv(p))
	assert.Equal(t, "yes", os.Getenv("PIXEL_OVERLAY_TEST_ONLY"))
	assert.NoError(t, LoadDotenv(filepath.Join(t.TempDir(), "missing.env")))
}
