package config_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrWong99/kith/internal/config"
)

func TestLoadFromReader_Defaults(t *testing.T) {
	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	want := config.Default()
	if cfg.OllamaHost != want.OllamaHost || cfg.Model != want.Model {
		t.Errorf("empty config=%+v, want defaults %+v", cfg, want)
	}
	if cfg.LogLevel != config.LogInfo {
		t.Errorf("LogLevel=%q, want info default", cfg.LogLevel)
	}
}

func TestLoadFromReader_OverridesAndFills(t *testing.T) {
	cfg, err := config.LoadFromReader(strings.NewReader("model: qwen3:8b\ndb_path: /tmp/other.db\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Model != "qwen3:8b" {
		t.Errorf("Model=%q, want qwen3:8b", cfg.Model)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath=%q, want /tmp/other.db", cfg.DBPath)
	}
	if cfg.OllamaHost != config.Default().OllamaHost {
		t.Errorf("OllamaHost=%q, want default fill", cfg.OllamaHost)
	}
}

func TestLoadFromReader_UnknownFieldRejected(t *testing.T) {
	_, err := config.LoadFromReader(strings.NewReader("no_such_field: 1\n"))
	if err == nil {
		t.Error("unknown config fields should be rejected")
	}
}

func TestLoadFromReader_InvalidLogLevel(t *testing.T) {
	_, err := config.LoadFromReader(strings.NewReader("log_level: loud\n"))
	if err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Errorf("err=%v, want log_level validation failure", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "kith.yaml"))
	if err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}
	if cfg.Model != config.Default().Model {
		t.Errorf("Model=%q, want default", cfg.Model)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://elsewhere:11434")
	t.Setenv("KITH_MODEL", "mistral:7b")
	t.Setenv("KITH_DB", "/tmp/env.db")
	t.Setenv("KITH_WHISPER_MODEL", "/models/ggml-small.bin")

	cfg, err := config.LoadFromReader(strings.NewReader("model: qwen3:8b\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.OllamaHost != "http://elsewhere:11434" {
		t.Errorf("OllamaHost=%q, want env override", cfg.OllamaHost)
	}
	if cfg.Model != "mistral:7b" {
		t.Errorf("Model=%q, want env to beat file", cfg.Model)
	}
	if cfg.DBPath != "/tmp/env.db" || cfg.WhisperModelPath != "/models/ggml-small.bin" {
		t.Errorf("paths=%q %q, want env overrides", cfg.DBPath, cfg.WhisperModelPath)
	}
}
