package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/soocke/pixel-overlay-go/domain/settings"
)

// Config holds runtime configuration for capture, detection and app behavior.
// Fields may be loaded from a JSON or YAML file, overridden by PIXEL_OVERLAY_*
// environment variables and finally by command-line flags.
type Config struct {
	Debug bool `json:"debug" yaml:"debug"`

	// Capture
	CaptureBackend string `json:"capture_backend" yaml:"capture_backend"`
	Monitor        int    `json:"monitor" yaml:"monitor"`
	// An explicit region wins over Monitor when width and height are set.
	RegionX    int `json:"region_x" yaml:"region_x"`
	RegionY    int `json:"region_y" yaml:"region_y"`
	RegionW    int `json:"region_w" yaml:"region_w"`
	RegionH    int `json:"region_h" yaml:"region_h"`
	TickMillis int `json:"tick_ms" yaml:"tick_ms"`

	// Detector
	Detector         string  `json:"detector" yaml:"detector"`
	ModelPath        string  `json:"model_path" yaml:"model_path"`
	OnnxLibraryPath  string  `json:"onnx_library_path" yaml:"onnx_library_path"`
	InputSize        int     `json:"input_size" yaml:"input_size"`
	IoUThreshold     float64 `json:"iou_threshold" yaml:"iou_threshold"`
	Threads          int     `json:"threads" yaml:"threads"`
	BodyPartClassIDs []int   `json:"body_part_class_ids,omitempty" yaml:"body_part_class_ids,omitempty"`
	RemoteEndpoint   string  `json:"remote_endpoint" yaml:"remote_endpoint"`
	RemoteTimeoutMs  int     `json:"remote_timeout_ms" yaml:"remote_timeout_ms"`
	RemoteTopology   string  `json:"remote_topology" yaml:"remote_topology"`

	// Overlay and trigger settings seeded into the settings store
	Overlay  settings.Overlay  `json:"overlay" yaml:"overlay"`
	Bindings settings.Bindings `json:"bindings" yaml:"bindings"`

	// Input and pointer
	InputSource    string `json:"input_source" yaml:"input_source"`
	PointerBackend string `json:"pointer_backend" yaml:"pointer_backend"`
	DryRun         bool   `json:"dry_run" yaml:"dry_run"`

	// Settings server; empty disables it
	Listen string `json:"listen" yaml:"listen"`

	Headless          bool `json:"headless" yaml:"headless"`
	MemLogIntervalSec int  `json:"mem_log_interval_sec" yaml:"mem_log_interval_sec"`
}

// Input sources.
const (
	InputHook = "hook"
	InputPoll = "poll"
	InputNone = "none"
)

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		CaptureBackend:    "screenshot",
		Monitor:           0,
		TickMillis:        30,
		Detector:          "remote",
		InputSize:         640,
		IoUThreshold:      0.45,
		RemoteEndpoint:    "http://127.0.0.1:8765",
		RemoteTimeoutMs:   2000,
		RemoteTopology:    "mediapipe_pose",
		Overlay:           settings.DefaultOverlay(),
		Bindings:          settings.DefaultBindings(),
		InputSource:       InputHook,
		Listen:            "127.0.0.1:8090",
		MemLogIntervalSec: 0,
	}
}

// Validate clamps/normalizes values to safe ranges. Only values that cannot
// be repaired produce an error.
func (c *Config) Validate() error {
	c.CaptureBackend = strings.ToLower(strings.TrimSpace(c.CaptureBackend))
	if c.CaptureBackend == "" {
		c.CaptureBackend = "screenshot"
	}
	if c.Monitor < 0 {
		c.Monitor = 0
	}
	if c.RegionW < 0 || c.RegionH < 0 {
		c.RegionW, c.RegionH = 0, 0
	}
	if c.TickMillis <= 0 {
		c.TickMillis = 30
	}
	if c.TickMillis > 1000 {
		c.TickMillis = 1000
	}
	c.Detector = strings.ToLower(strings.TrimSpace(c.Detector))
	if c.Detector == "" {
		c.Detector = "remote"
	}
	if c.InputSize <= 0 || c.InputSize%32 != 0 {
		c.InputSize = 640
	}
	if c.IoUThreshold <= 0 || c.IoUThreshold > 1 {
		c.IoUThreshold = 0.45
	}
	if c.Threads < 0 {
		c.Threads = 0
	}
	if c.RemoteTimeoutMs <= 0 {
		c.RemoteTimeoutMs = 2000
	}
	c.Overlay = c.Overlay.Clamp()
	c.Bindings = c.Bindings.Normalize()
	switch c.InputSource = strings.ToLower(strings.TrimSpace(c.InputSource)); c.InputSource {
	case InputHook, InputPoll, InputNone:
	default:
		c.InputSource = InputHook
	}
	if c.MemLogIntervalSec < 0 {
		c.MemLogIntervalSec = 0
	}
	switch c.Detector {
	case "onnx-pose", "onnx-box", "cvdnn", "cvdnn-pose":
		if c.ModelPath == "" {
			return fmt.Errorf("config: detector %s needs model_path", c.Detector)
		}
	case "remote":
		if c.RemoteEndpoint == "" {
			return fmt.Errorf("config: detector remote needs remote_endpoint")
		}
	default:
		return fmt.Errorf("config: unknown detector %q", c.Detector)
	}
	return nil
}

// HasExplicitRegion reports whether the region fields override Monitor.
func (c *Config) HasExplicitRegion() bool { return c.RegionW > 0 && c.RegionH > 0 }

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load attempts to read configuration from the given JSON or YAML file
// path. If the file does not exist it returns DefaultConfig(). On decode
// error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path, as YAML for .yaml/.yml
// paths and JSON otherwise.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
