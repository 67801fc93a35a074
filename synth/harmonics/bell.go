package harmonics

import "github.com/cwbudde/algo-synth/synth"

// bellPartials are the classic inharmonic bell ratios. The prime (ratio 1)
// leads, the hum tone and upper partials follow in ascending order.
var bellPartials = []synth.Harmonic{
	{Frequency: 1.0, Amplitude: 1.0},
	{Frequency: 0.56, Amplitude: 0.6},
	{Frequency: 0.92, Amplitude: 0.5},
	{Frequency: 1.19, Amplitude: 0.45},
	{Frequency: 1.71, Amplitude: 0.4},
	{Frequency: 2.0, Amplitude: 0.33},
	{Frequency: 2.74, Amplitude: 0.25},
	{Frequency: 3.0, Amplitude: 0.2},
	{Frequency: 3.76, Amplitude: 0.15},
	{Frequency: 4.07, Amplitude: 0.1},
}

// Bell produces fixed inharmonic bell ratios.
type Bell struct{}

// NewBell creates a bell spectral model.
func NewBell() *Bell {
	return &Bell{}
}

// Name returns the model identifier.
func (b *Bell) Name() string { return NameBell }

// Partials returns the bell partial table scaled to freq, Nyquist-safe.
func (b *Bell) Partials(freq float64, _ int, sampleRate float64) []synth.Harmonic {
	return scaleTable(bellPartials, freq, sampleRate)
}

// scaleTable maps a ratio/amplitude table onto a fundamental, dropping
// entries at or above the Nyquist safety limit.
func scaleTable(table []synth.Harmonic, freq, sampleRate float64) []synth.Harmonic {
	limit := synth.NyquistLimit(sampleRate)
	out := make([]synth.Harmonic, 0, len(table))
	for _, p := range table {
		out = appendPartial(out, freq*p.Frequency, p.Amplitude, limit)
	}
	return out
}
