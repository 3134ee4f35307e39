// Package config loads the kith configuration from a YAML file with
// environment variable overrides for the commonly tuned values.
package config

import (
	"fmt"
	"log/slog"
	"os"
)

// LogLevel controls log verbosity for the kith CLI.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Slog converts l to its slog equivalent. Unset or unknown levels map to
// info.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Config holds every tunable for the kith CLI.
type Config struct {
	// DBPath is the SQLite database file location.
	DBPath string `yaml:"db_path"`

	// OllamaHost is the base URL of the Ollama server.
	OllamaHost string `yaml:"ollama_host"`

	// Model is the Ollama chat model used for parsing.
	Model string `yaml:"model"`

	// WhisperModelPath is the whisper.cpp model file for voice logging.
	WhisperModelPath string `yaml:"whisper_model_path"`

	// LogLevel controls diagnostic verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		DBPath:           ".data/kith.db",
		OllamaHost:       "http://localhost:11434",
		Model:            "llama3.2:3b",
		WhisperModelPath: ".data/models/ggml-base.en.bin",
		LogLevel:         LogInfo,
	}
}

// applyEnv overrides cfg fields from environment variables. Empty variables
// leave the current values untouched.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.OllamaHost = v
	}
	if v := os.Getenv("KITH_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("KITH_WHISPER_MODEL"); v != "" {
		cfg.WhisperModelPath = v
	}
	if v := os.Getenv("KITH_DB"); v != "" {
		cfg.DBPath = v
	}
}

// Validate checks that cfg contains a coherent set of values.
func Validate(cfg *Config) error {
	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		return fmt.Errorf("config: log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel)
	}
	return nil
}
