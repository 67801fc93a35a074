// Package method provides the per-sample waveform generators of the
// synthesis core. Each named method produces one sample in roughly [-1, 1]
// for a frequency and elapsed time; harmonic summation happens in the
// orchestrating generator, not here.
//
// Included methods:
//   - Additive: pure sine base tone.
//   - FM: two-operator carrier/modulator frequency modulation.
//   - Waveform: closed-form sawtooth, square, triangle, or sine.
//   - Subtractive: saw/square blend with an amplitude-scaling lowpass
//     approximation.
//   - Physical: Karplus-Strong plucked string with per-frequency delay
//     lines; stateful, stepped once per sample in time order.
package method

import "fmt"

// Method names accepted by New.
const (
	NameAdditive    = "additive"
	NameFM          = "fm"
	NameWaveform    = "waveform"
	NameSubtractive = "subtractive"
	NamePhysical    = "physical"
)

// Method generates one waveform sample for frequency freq at time t seconds.
type Method interface {
	Name() string
	Generate(freq, t float64) float64
}

// Stateful is implemented by methods that hold per-note state and must be
// stepped once per output sample in strictly increasing time order.
type Stateful interface {
	Method

	// BeginNote prepares state for a note at the unmodulated base
	// frequency. The base frequency keys the internal state, so
	// frequency modulation during the note does not perturb it.
	BeginNote(baseFreq, sampleRate float64) error

	// Step advances the model by one sample and returns it. ratio skews
	// the read position for vibrato; 1.0 means no modulation.
	Step(ratio float64) float64
}

// Params configures method construction. Zero values select the defaults
// documented per field.
type Params struct {
	ModIndex float64 // FM modulation index (default 2.0)
	ModRatio float64 // FM modulator/carrier frequency ratio (default 2.0)
	Shape    string  // Waveform shape: "sawtooth", "square", "triangle", "sine" (default "sawtooth")
	CutoffHz float64 // Subtractive lowpass approximation cutoff (default 2000)
	Decay    float64 // Physical model feedback decay in (0, 1] (default 0.996)
	Damping  float64 // Physical model loop lowpass blend in [0, 1] (default 0.5)
}

// New resolves a method name to an instance. Unknown names are an error;
// there is no default substitution.
func New(name string, p Params) (Method, error) {
	switch name {
	case NameAdditive:
		return NewAdditive(), nil
	case NameFM:
		return NewFM(p)
	case NameWaveform:
		return NewWaveform(p)
	case NameSubtractive:
		return NewSubtractive(p)
	case NamePhysical:
		return NewPhysical(p)
	default:
		return nil, fmt.Errorf("method: unknown synthesis method %q", name)
	}
}
