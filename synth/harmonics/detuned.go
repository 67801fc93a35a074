package harmonics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/synth"
)

const (
	defaultDetuneCents  = 12.0
	defaultDetuneVoices = 3
	maxDetuneVoices     = 9
	maxDetuneCents      = 100.0
)

// Detuned produces a cluster of oscillators spread symmetrically around
// the fundamental, the classic thickened supersaw-style unison.
type Detuned struct {
	cents  float64
	voices int
}

// NewDetuned creates a detuned-cluster model.
func NewDetuned(p Params) (*Detuned, error) {
	cents := p.DetuneCents
	if cents == 0 {
		cents = defaultDetuneCents
	}
	if cents < 0 || cents > maxDetuneCents {
		return nil, fmt.Errorf("harmonics: detune spread must be in [0, %g] cents: %g", maxDetuneCents, p.DetuneCents)
	}
	voices := p.Voices
	if voices == 0 {
		voices = defaultDetuneVoices
	}
	if voices < 1 || voices > maxDetuneVoices {
		return nil, fmt.Errorf("harmonics: detune cluster size must be in [1, %d]: %d", maxDetuneVoices, p.Voices)
	}
	return &Detuned{cents: cents, voices: voices}, nil
}

// Name returns the model identifier.
func (d *Detuned) Name() string { return NameDetuned }

// Partials returns the fundamental followed by detuned siblings in
// ascending frequency.
func (d *Detuned) Partials(freq float64, _ int, sampleRate float64) []synth.Harmonic {
	limit := synth.NyquistLimit(sampleRate)
	out := make([]synth.Harmonic, 0, d.voices)
	out = appendPartial(out, freq, 1.0, limit)

	// Remaining voices pair up below and above the fundamental.
	pairs := (d.voices - 1) / 2
	hasOdd := (d.voices-1)%2 == 1
	for i := 1; i <= pairs; i++ {
		spread := d.cents * float64(i) / float64(pairs+1)
		ratio := centsToRatio(spread)
		out = appendPartial(out, freq/ratio, 0.6/float64(i), limit)
		out = appendPartial(out, freq*ratio, 0.6/float64(i), limit)
	}
	if hasOdd {
		out = appendPartial(out, freq*centsToRatio(d.cents), 0.3, limit)
	}
	return out
}

func centsToRatio(cents float64) float64 {
	return math.Pow(2, cents/1200)
}
