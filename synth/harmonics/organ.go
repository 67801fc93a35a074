package harmonics

import "github.com/cwbudde/algo-synth/synth"

// organPartials model drawbar-style stop ratios: unison first, then the
// sub-octave, quint, and upper stops.
var organPartials = []synth.Harmonic{
	{Frequency: 1.0, Amplitude: 1.0},
	{Frequency: 0.5, Amplitude: 0.5},
	{Frequency: 1.5, Amplitude: 0.4},
	{Frequency: 2.0, Amplitude: 0.7},
	{Frequency: 3.0, Amplitude: 0.3},
	{Frequency: 4.0, Amplitude: 0.45},
	{Frequency: 6.0, Amplitude: 0.2},
	{Frequency: 8.0, Amplitude: 0.25},
}

// Organ produces fixed organ-stop ratios.
type Organ struct{}

// NewOrgan creates an organ spectral model.
func NewOrgan() *Organ {
	return &Organ{}
}

// Name returns the model identifier.
func (o *Organ) Name() string { return NameOrgan }

// Partials returns the organ stop table scaled to freq, Nyquist-safe.
func (o *Organ) Partials(freq float64, _ int, sampleRate float64) []synth.Harmonic {
	return scaleTable(organPartials, freq, sampleRate)
}
