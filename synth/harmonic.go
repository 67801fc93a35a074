package synth

// Harmonic is one spectral partial of a synthesized tone.
type Harmonic struct {
	Frequency float64 // partial frequency in Hz, > 0
	Amplitude float64 // linear amplitude, >= 0
}

// Ratio returns the partial frequency relative to a fundamental.
func (h Harmonic) Ratio(fundamental float64) float64 {
	if fundamental <= 0 {
		return 0
	}
	return h.Frequency / fundamental
}

// NyquistLimit returns the highest partial frequency the spectral models
// may emit for a sample rate. The margin below sampleRate/2 keeps the top
// partials clear of the foldover region.
func NyquistLimit(sampleRate float64) float64 {
	return sampleRate / 2.5
}
