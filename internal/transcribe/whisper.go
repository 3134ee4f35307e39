// Package transcribe converts audio samples to text with whisper.cpp.
//
// The whisper.cpp static library (libwhisper.a) and headers (whisper.h) must
// be available at link time via LIBRARY_PATH and C_INCLUDE_PATH environment
// variables. The model file is loaded once per [Whisper] and reused for
// every transcription.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// DefaultModelPath is the whisper model location used when none is
// configured.
const DefaultModelPath = ".data/models/ggml-base.en.bin"

// defaultLanguage is the BCP-47 language code passed to whisper.
const defaultLanguage = "en"

// modelDownloadURL is shown when the model file is missing.
const modelDownloadURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.en.bin"

// ErrModelMissing indicates no model file exists at the configured path.
var ErrModelMissing = errors.New("transcribe: whisper model not found")

// Transcriber converts 16 kHz mono float32 samples to text.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32) (string, error)
}

// Option is a functional option for configuring a [Whisper].
type Option func(*Whisper)

// WithLanguage sets the transcription language code (e.g. "en", "de").
// Defaults to "en".
func WithLanguage(lang string) Option {
	return func(w *Whisper) { w.language = lang }
}

// Whisper is a [Transcriber] backed by the whisper.cpp CGO bindings. The
// caller must call Close when done.
type Whisper struct {
	model    whisperlib.Model
	language string
}

var _ Transcriber = (*Whisper)(nil)

// NewWhisper loads the whisper model at modelPath. A missing file fails fast
// with [ErrModelMissing] and download guidance rather than surfacing an
// opaque load error from the C library.
func NewWhisper(modelPath string, opts ...Option) (*Whisper, error) {
	if modelPath == "" {
		modelPath = DefaultModelPath
	}
	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf(
				"%w at %s\n  Download: curl -L -o %s %s",
				ErrModelMissing, modelPath, modelPath, modelDownloadURL)
		}
		return nil, fmt.Errorf("transcribe: stat model %q: %w", modelPath, err)
	}

	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: load model %q: %w", modelPath, err)
	}

	w := &Whisper{model: model, language: defaultLanguage}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Close releases the whisper model.
func (w *Whisper) Close() error {
	if w.model != nil {
		return w.model.Close()
	}
	return nil
}

// Transcribe runs whisper inference over samples and returns the
// concatenated segment text. Samples must be 16 kHz mono float32. An
// all-silence input yields an empty string and no error.
func (w *Whisper) Transcribe(ctx context.Context, samples []float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("transcribe: context already cancelled: %w", err)
	}

	// Each context is NOT thread-safe, but the model can be shared across
	// goroutines, so a fresh context per call keeps Whisper safe for
	// concurrent use.
	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("transcribe: create context: %w", err)
	}

	if err := wctx.SetLanguage(w.language); err != nil {
		return "", fmt.Errorf("transcribe: set language %q: %w", w.language, err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("transcribe: process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("transcribe: read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}
