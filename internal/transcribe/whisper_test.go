package transcribe_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/MrWong99/kith/internal/transcribe"
)

// testModelPath returns the path to a whisper model for integration tests.
// It reads from the WHISPER_MODEL_PATH environment variable. If unset the
// test is skipped.
func testModelPath(t *testing.T) string {
	t.Helper()
	p := os.Getenv("WHISPER_MODEL_PATH")
	if p == "" {
		t.Skip("WHISPER_MODEL_PATH not set; skipping native whisper test")
	}
	return p
}

func TestNewWhisper_MissingModel(t *testing.T) {
	_, err := transcribe.NewWhisper("/nonexistent/path/to/model.bin")
	if !errors.Is(err, transcribe.ErrModelMissing) {
		t.Fatalf("err=%v, want ErrModelMissing", err)
	}
	if !strings.Contains(err.Error(), "Download:") {
		t.Errorf("missing-model error should carry download guidance, got: %v", err)
	}
}

func TestNewWhisper_LoadsModel(t *testing.T) {
	w, err := transcribe.NewWhisper(testModelPath(t), transcribe.WithLanguage("en"))
	if err != nil {
		t.Fatalf("NewWhisper: %v", err)
	}
	defer w.Close()
}

func TestTranscribe_CancelledContext(t *testing.T) {
	w, err := transcribe.NewWhisper(testModelPath(t))
	if err != nil {
		t.Fatalf("NewWhisper: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := w.Transcribe(ctx, make([]float32, 16000)); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

func TestTranscribe_SilenceYieldsEmptyText(t *testing.T) {
	w, err := transcribe.NewWhisper(testModelPath(t))
	if err != nil {
		t.Fatalf("NewWhisper: %v", err)
	}
	defer w.Close()

	text, err := w.Transcribe(context.Background(), make([]float32, 16000))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	t.Logf("silence transcribed as: %q", text)
}
