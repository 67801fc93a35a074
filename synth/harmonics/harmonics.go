// Package harmonics provides the spectral models of the synthesis core.
// Each named model maps a fundamental frequency to an ordered partial
// list; the fundamental-ratio partial comes first, remaining partials
// follow in ascending frequency. Every model silently drops partials at
// or above [synth.NyquistLimit] for the sample rate instead of aliasing.
package harmonics

import (
	"fmt"

	"github.com/cwbudde/algo-synth/synth"
)

// Model names accepted by New.
const (
	NameSeries  = "series"
	NameBell    = "bell"
	NameOrgan   = "organ"
	NameDetuned = "detuned"
	NameSingle  = "single"
	NameTine    = "tine"
	NameBrass   = "brass"
)

// Content produces the partial list for a fundamental. numSamples is the
// length of the buffer being rendered; models that shape their partial
// count by note length may use it, the rest ignore it.
type Content interface {
	Name() string
	Partials(freq float64, numSamples int, sampleRate float64) []synth.Harmonic
}

// Params configures model construction. Zero values select per-model
// defaults.
type Params struct {
	Inharmonicity float64 // series: partial stretching coefficient (default 0.0002)
	MaxPartials   int     // series/brass: partial count ceiling (default 16)
	DetuneCents   float64 // detuned: spread of the oscillator cluster (default 12)
	Voices        int     // detuned: cluster size (default 3)
}

// New resolves a model name to an instance. Unknown names are an error;
// there is no default substitution.
func New(name string, p Params) (Content, error) {
	switch name {
	case NameSeries:
		return NewSeries(p)
	case NameBell:
		return NewBell(), nil
	case NameOrgan:
		return NewOrgan(), nil
	case NameDetuned:
		return NewDetuned(p)
	case NameSingle:
		return NewSingle(), nil
	case NameTine:
		return NewTine(), nil
	case NameBrass:
		return NewBrass(p)
	default:
		return nil, fmt.Errorf("harmonics: unknown spectral model %q", name)
	}
}

// appendPartial appends the partial if it is below the Nyquist safety
// limit, keeping models alias-free by construction.
func appendPartial(dst []synth.Harmonic, freq, amp, limit float64) []synth.Harmonic {
	if freq <= 0 || freq >= limit {
		return dst
	}
	return append(dst, synth.Harmonic{Frequency: freq, Amplitude: amp})
}
