package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nevisdale/nescore/internal/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.FrameRate)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.True(t, cfg.Sound)
	assert.Zero(t, cfg.MemoryFlushValue)
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nescore.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nescore.yaml")
	doc := `
frame_rate: 50
sound: false
memory_flush_value: 0xff
controls:
  port2:
    a: K
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.FrameRate)
	assert.False(t, cfg.Sound)
	assert.Equal(t, uint8(0xff), cfg.MemoryFlushValue)
	assert.Equal(t, 44100, cfg.SampleRate, "unset fields keep defaults")
	assert.Equal(t, map[string]input.Button{"K": input.A}, cfg.Bindings(1))
	assert.Equal(t, input.Start, cfg.Bindings(0)["Enter"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{name: "frame rate", modify: func(c *Config) { c.FrameRate = 0 }},
		{name: "sample rate", modify: func(c *Config) { c.SampleRate = -1 }},
		{name: "audio buffer", modify: func(c *Config) { c.AudioBuffer = 0 }},
		{name: "scale", modify: func(c *Config) { c.Scale = 0 }},
		{name: "button", modify: func(c *Config) { c.Controls.Port1["turbo"] = "T" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nescore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_rate: 0\n"), 0o644))

	cfg, err := Load(path)

	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nescore.yaml")
	cfg := Default()
	cfg.Trace = true

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
