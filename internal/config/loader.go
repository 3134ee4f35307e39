package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path, fills unset fields from
// [Default], applies environment overrides, and validates the result. A
// missing file is not an error: defaults plus environment apply.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, fills unset fields from
// [Default], applies environment overrides, and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	defaults := Default()
	if cfg.DBPath == "" {
		cfg.DBPath = defaults.DBPath
	}
	if cfg.OllamaHost == "" {
		cfg.OllamaHost = defaults.OllamaHost
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.WhisperModelPath == "" {
		cfg.WhisperModelPath = defaults.WhisperModelPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
