package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PIXEL_OVERLAY_"

// LoadDotenv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv overrides fields from PIXEL_OVERLAY_* variables found through
// lookup (normally os.LookupEnv). Unparsable values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}
	flt := func(name string, dst *float64) {
		if v, ok := lookup(EnvPrefix + name); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				*dst = f
			}
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				*dst = b
			}
		}
	}

	boolean("DEBUG", &c.Debug)
	str("CAPTURE_BACKEND", &c.CaptureBackend)
	num("MONITOR", &c.Monitor)
	num("TICK_MS", &c.TickMillis)
	str("DETECTOR", &c.Detector)
	str("MODEL_PATH", &c.ModelPath)
	str("ONNX_LIBRARY_PATH", &c.OnnxLibraryPath)
	str("REMOTE_ENDPOINT", &c.RemoteEndpoint)
	num("REMOTE_TIMEOUT_MS", &c.RemoteTimeoutMs)
	flt("CONFIDENCE", &c.Overlay.DetectionConfidence)
	num("LINE_THICKNESS", &c.Overlay.LineThickness)
	if v, ok := lookup(EnvPrefix + "LEVEL_OF_DETAIL"); ok && v != "" {
		_ = c.Overlay.LevelOfDetail.UnmarshalText([]byte(v))
	}
	str("SNAP_BODY_KEY", &c.Bindings.SnapBodyKey)
	str("SNAP_HEAD_KEY", &c.Bindings.SnapHeadKey)
	str("INPUT_SOURCE", &c.InputSource)
	str("POINTER_BACKEND", &c.PointerBackend)
	boolean("DRY_RUN", &c.DryRun)
	str("LISTEN", &c.Listen)
	boolean("HEADLESS", &c.Headless)
}
