package harmonics

import "github.com/cwbudde/algo-synth/synth"

// tinePartials are the sparse partials of an electric piano tine: a strong
// fundamental, a bark partial near the fourth octave, and faint metallic
// components above.
var tinePartials = []synth.Harmonic{
	{Frequency: 1.0, Amplitude: 1.0},
	{Frequency: 3.9, Amplitude: 0.2},
	{Frequency: 6.9, Amplitude: 0.08},
	{Frequency: 12.1, Amplitude: 0.03},
}

// Tine produces fixed electric-piano tine partials.
type Tine struct{}

// NewTine creates a tine spectral model.
func NewTine() *Tine {
	return &Tine{}
}

// Name returns the model identifier.
func (t *Tine) Name() string { return NameTine }

// Partials returns the tine partial table scaled to freq, Nyquist-safe.
func (t *Tine) Partials(freq float64, _ int, sampleRate float64) []synth.Harmonic {
	return scaleTable(tinePartials, freq, sampleRate)
}
