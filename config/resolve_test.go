package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestResolve_Layering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detector: remote\nlisten: 127.0.0.1:9000\ntick_ms: 50\n"), 0o644))
	env := map[string]string{EnvPrefix + "TICK_MS": "40", EnvPrefix + "DEBUG": "true"}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg, err := Resolve(path, filepath.Join(dir, "missing.env"), lookup, Overrides{
		Listen:   ptr(ListenOff),
		DryRun:   ptr(true),
		Headless: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "remote", cfg.Detector)
	assert.Equal(t, 40, cfg.TickMillis, "env beats file")
	assert.True(t, cfg.Debug, "env applies when no flag given")
	assert.Empty(t, cfg.Listen)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Headless)

	cfg, err = Resolve(path, "", lookup, Overrides{Debug: ptr(false)})
	require.NoError(t, err)
	assert.False(t, cfg.Debug, "flag beats env")
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
}

func TestResolve_UnknownDetector(t *testing.T) {
	noEnv := func(string) (string, bool) { return "", false }
	_, err := Resolve("", "", noEnv, Overrides{Detector: ptr("magic")})
	assert.Error(t, err)
}
