// Package config holds the console settings. Values come from an
// optional YAML file layered over Default.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/nevisdale/nescore/internal/input"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

type Controls struct {
	Port1 map[string]string `yaml:"port1"`
	Port2 map[string]string `yaml:"port2"`
}

type Config struct {
	FrameRate        int      `yaml:"frame_rate"`
	Sound            bool     `yaml:"sound"`
	SampleRate       int      `yaml:"sample_rate"`
	AudioBuffer      int      `yaml:"audio_buffer"`
	MemoryFlushValue uint8    `yaml:"memory_flush_value"`
	Palette          string   `yaml:"palette"`
	Scale            int      `yaml:"scale"`
	StrictOpcodes    bool     `yaml:"strict_opcodes"`
	Trace            bool     `yaml:"trace"`
	Controls         Controls `yaml:"controls"`
}

func Default() Config {
	return Config{
		FrameRate:   60,
		Sound:       true,
		SampleRate:  44100,
		AudioBuffer: 8192,
		Scale:       2,
		Controls: Controls{
			Port1: map[string]string{
				"a":      "X",
				"b":      "Z",
				"select": "ShiftRight",
				"start":  "Enter",
				"up":     "ArrowUp",
				"down":   "ArrowDown",
				"left":   "ArrowLeft",
				"right":  "ArrowRight",
			},
			Port2: map[string]string{},
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := Parse(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping fields the document does not set,
// and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate))
	}
	if c.AudioBuffer <= 0 {
		errs = append(errs, fmt.Errorf("audio_buffer must be positive, got %d", c.AudioBuffer))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %d", c.Scale))
	}
	for port, m := range map[string]map[string]string{"port1": c.Controls.Port1, "port2": c.Controls.Port2} {
		for _, name := range sortedKeys(m) {
			if _, err := input.ParseButton(name); err != nil {
				errs = append(errs, fmt.Errorf("controls.%s: %w", port, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Bindings resolves a port's control map to key name -> button.
func (c Config) Bindings(port int) map[string]input.Button {
	m := c.Controls.Port1
	if port == 1 {
		m = c.Controls.Port2
	}
	out := make(map[string]input.Button, len(m))
	for name, key := range m {
		b, err := input.ParseButton(name)
		if err != nil {
			continue
		}
		out[key] = b
	}
	return out
}

func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func sortedKeys(m map[string]string) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
