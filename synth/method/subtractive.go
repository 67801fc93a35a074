package method

import (
	"fmt"
	"math"
)

const (
	defaultSubtractiveCutoffHz = 2000.0

	subtractiveSawWeight    = 0.7
	subtractiveSquareWeight = 0.3
)

// Subtractive blends a sawtooth and a square oscillator and approximates a
// lowpass filter by scaling the amplitude down as the frequency approaches
// the cutoff. This is not a true filter; it shapes level, not spectrum,
// which is accurate enough for the per-partial use in the generator.
type Subtractive struct {
	cutoffHz float64
}

// NewSubtractive creates a subtractive method. Zero cutoff selects 2 kHz.
func NewSubtractive(p Params) (*Subtractive, error) {
	cutoff := p.CutoffHz
	if cutoff == 0 {
		cutoff = defaultSubtractiveCutoffHz
	}
	if cutoff <= 0 {
		return nil, fmt.Errorf("method: subtractive cutoff must be > 0: %g", p.CutoffHz)
	}
	return &Subtractive{cutoffHz: cutoff}, nil
}

// Name returns the method identifier.
func (s *Subtractive) Name() string { return NameSubtractive }

// Generate returns the filtered oscillator blend at frequency freq.
func (s *Subtractive) Generate(freq, t float64) float64 {
	phase := t * freq
	phase -= math.Floor(phase)

	saw := 2*phase - 1
	square := 1.0
	if phase >= 0.5 {
		square = -1.0
	}

	sample := subtractiveSawWeight*saw + subtractiveSquareWeight*square
	attenuation := 1 - math.Min(1, freq/s.cutoffHz)
	return sample * attenuation
}
