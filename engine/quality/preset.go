// Package quality provides the CPU-adaptive quality controller: a small
// state machine over three quality levels, driven by measured frame times,
// with an immutable synthesis/output parameter preset per level.
package quality

import (
	"fmt"
	"time"
)

// Level is a process-wide quality tier.
type Level int

// Quality levels, lowest fidelity first.
const (
	Low Level = iota
	Medium
	High
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("quality.Level(%d)", int(l))
	}
}

// Valid reports whether l is a defined level.
func (l Level) Valid() bool {
	return l >= Low && l <= High
}

// Preset is the immutable parameter bundle of one quality level.
type Preset struct {
	// MaxHarmonics caps the partial count per rendered note.
	MaxHarmonics int

	// AutogainInterval is the autogain sampling period. Lower levels
	// sample less often to save CPU.
	AutogainInterval time.Duration

	// SimplifiedSynthesis skips the per-sample modulation queries.
	SimplifiedSynthesis bool

	// ChunkSize slices synthesis into cooperative chunks; 0 renders in
	// a single pass. Chunking changes loop granularity only, never the
	// produced samples.
	ChunkSize int

	// SampleRate is the preferred output sample rate in Hz.
	SampleRate int

	// BufferSize is the preferred output buffer size in samples.
	BufferSize int
}

var presets = [...]Preset{
	Low: {
		MaxHarmonics:        4,
		AutogainInterval:    400 * time.Millisecond,
		SimplifiedSynthesis: true,
		ChunkSize:           512,
		SampleRate:          22050,
		BufferSize:          4096,
	},
	Medium: {
		MaxHarmonics:        8,
		AutogainInterval:    250 * time.Millisecond,
		SimplifiedSynthesis: false,
		ChunkSize:           1024,
		SampleRate:          44100,
		BufferSize:          2048,
	},
	High: {
		MaxHarmonics:        16,
		AutogainInterval:    150 * time.Millisecond,
		SimplifiedSynthesis: false,
		ChunkSize:           0,
		SampleRate:          48000,
		BufferSize:          1024,
	},
}

// PresetFor returns the parameter bundle of a level.
func PresetFor(l Level) Preset {
	if !l.Valid() {
		return presets[Medium]
	}
	return presets[l]
}
