package harmonics

import "github.com/cwbudde/algo-synth/synth"

// Single produces only the fundamental. Useful for methods like FM whose
// spectrum comes from the method itself rather than partial stacking.
type Single struct{}

// NewSingle creates a single-partial model.
func NewSingle() *Single {
	return &Single{}
}

// Name returns the model identifier.
func (s *Single) Name() string { return NameSingle }

// Partials returns the fundamental alone, or nothing above the Nyquist
// safety limit.
func (s *Single) Partials(freq float64, _ int, sampleRate float64) []synth.Harmonic {
	limit := synth.NyquistLimit(sampleRate)
	return appendPartial(make([]synth.Harmonic, 0, 1), freq, 1.0, limit)
}
