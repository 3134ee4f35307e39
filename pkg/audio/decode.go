// Package audio decodes RIFF/WAV files into the mono 16 kHz float32 sample
// stream expected by the transcription stage.
//
// Supported inputs are standard WAV containers carrying PCM integer samples
// (16, 24, or 32 bit) or IEEE 32-bit float samples, with any channel count
// and sample rate. Multi-channel audio is down-mixed to mono by averaging
// all channel values per frame, and anything not already at 16 kHz is
// resampled with linear interpolation.
//
// Decoding is pure and deterministic: identical input bytes always produce
// bit-identical output.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// TargetRate is the output sample rate in Hz. Whisper models expect 16 kHz.
const TargetRate = 16000

// ErrUnsupportedBitDepth is returned when a WAV file carries integer samples
// of a bit depth other than 16, 24, or 32, or float samples other than 32 bit.
var ErrUnsupportedBitDepth = errors.New("audio: unsupported bit depth")

// ErrCorrupt is returned when the file is not a well-formed RIFF/WAV container.
var ErrCorrupt = errors.New("audio: corrupt or truncated WAV file")

// WAV format codes from the fmt chunk.
const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

// Decode reads the WAV file at path and returns its audio content as mono
// float32 samples at [TargetRate] Hz, normalised to [-1.0, 1.0].
//
// A missing file surfaces as an error satisfying errors.Is(err, fs.ErrNotExist).
// Malformed containers return [ErrCorrupt]; unsupported sample formats return
// [ErrUnsupportedBitDepth].
func Decode(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %q: %w", path, err)
	}
	defer f.Close()
	samples, err := DecodeReader(f)
	if err != nil {
		return nil, fmt.Errorf("audio: decode %q: %w", path, err)
	}
	return samples, nil
}

// DecodeReader decodes a WAV stream from r. See [Decode] for the output
// contract.
func DecodeReader(r io.Reader) ([]float32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("audio: read: %w", err)
	}
	return decode(data)
}

// wavFormat holds the fields of the fmt chunk needed for sample decoding.
type wavFormat struct {
	audioFormat   uint16
	channels      int
	sampleRate    int
	bitsPerSample int
}

func decode(data []byte) ([]float32, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrCorrupt
	}

	var (
		format  *wavFormat
		pcmData []byte
	)

	// Walk the chunk list. Chunks are word-aligned: an odd-sized payload is
	// followed by one padding byte.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if size < 0 || body+size > len(data) {
			return nil, ErrCorrupt
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, ErrCorrupt
			}
			format = &wavFormat{
				audioFormat:   binary.LittleEndian.Uint16(data[body : body+2]),
				channels:      int(binary.LittleEndian.Uint16(data[body+2 : body+4])),
				sampleRate:    int(binary.LittleEndian.Uint32(data[body+4 : body+8])),
				bitsPerSample: int(binary.LittleEndian.Uint16(data[body+14 : body+16])),
			}
		case "data":
			pcmData = data[body : body+size]
		}

		pos = body + size
		if size%2 == 1 {
			pos++
		}
	}

	if format == nil || pcmData == nil {
		return nil, ErrCorrupt
	}
	if format.channels <= 0 || format.sampleRate <= 0 {
		return nil, ErrCorrupt
	}

	raw, err := decodeSamples(pcmData, format)
	if err != nil {
		return nil, err
	}

	mono := downmixMono(raw, format.channels)

	if format.sampleRate == TargetRate {
		return mono, nil
	}
	return Resample(mono, format.sampleRate, TargetRate), nil
}

// decodeSamples converts raw interleaved sample bytes to float32 values in
// [-1.0, 1.0]. Integer samples are normalised by 2^(bits-1).
func decodeSamples(pcm []byte, f *wavFormat) ([]float32, error) {
	switch f.audioFormat {
	case formatIEEEFloat:
		if f.bitsPerSample != 32 {
			return nil, fmt.Errorf("%w: %d-bit float", ErrUnsupportedBitDepth, f.bitsPerSample)
		}
		n := len(pcm) / 4
		out := make([]float32, n)
		for i := range n {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(pcm[i*4 : i*4+4]))
		}
		return out, nil

	case formatPCM:
		switch f.bitsPerSample {
		case 16:
			const div = float32(1 << 15)
			n := len(pcm) / 2
			out := make([]float32, n)
			for i := range n {
				s := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
				out[i] = float32(s) / div
			}
			return out, nil
		case 24:
			const div = float32(1 << 23)
			n := len(pcm) / 3
			out := make([]float32, n)
			for i := range n {
				b := pcm[i*3 : i*3+3]
				// Sign-extend the 24-bit little-endian value.
				s := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
				out[i] = float32(s) / div
			}
			return out, nil
		case 32:
			const div = float32(1 << 31)
			n := len(pcm) / 4
			out := make([]float32, n)
			for i := range n {
				s := int32(binary.LittleEndian.Uint32(pcm[i*4 : i*4+4]))
				out[i] = float32(s) / div
			}
			return out, nil
		default:
			return nil, fmt.Errorf("%w: %d-bit integer", ErrUnsupportedBitDepth, f.bitsPerSample)
		}

	default:
		return nil, fmt.Errorf("%w: format code %d", ErrUnsupportedBitDepth, f.audioFormat)
	}
}

// downmixMono averages all channel values within each frame. When channels
// is 1 the input is returned unchanged.
func downmixMono(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]float32, frames)
	for i := range frames {
		var sum float32
		for ch := range channels {
			sum += samples[i*channels+ch]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// Resample converts samples from fromRate to toRate using linear
// interpolation. The output length is ceil(len(samples) / (fromRate/toRate)).
// Source positions past the end of the input read as 0.0. When the rates are
// equal the input slice is returned unchanged.
func Resample(samples []float32, fromRate, toRate int) []float32 {
	if fromRate <= 0 || toRate <= 0 || fromRate == toRate {
		return samples
	}
	ratio := float64(fromRate) / float64(toRate)
	newLen := int(math.Ceil(float64(len(samples)) / ratio))
	out := make([]float32, newLen)
	for i := range newLen {
		src := float64(i) * ratio
		idx := int(src)
		frac := float32(src - float64(idx))
		a := sampleAt(samples, idx)
		b := sampleAt(samples, idx+1)
		out[i] = a + (b-a)*frac
	}
	return out
}

// sampleAt returns samples[i], or 0.0 when i is out of range.
func sampleAt(samples []float32, i int) float32 {
	if i < 0 || i >= len(samples) {
		return 0
	}
	return samples[i]
}
