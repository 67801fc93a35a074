// Package envelope provides the amplitude envelopes of the synthesis
// core. A shape maps elapsed time since note onset to a multiplier in
// [0, 1]; every shape is non-increasing once past its peak, except the
// synth shape's held sustain plateau.
package envelope

import "fmt"

// Shape names accepted by New.
const (
	NamePercussive = "percussive"
	NamePluck      = "pluck"
	NamePad        = "pad"
	NameSustained  = "sustained"
	NameSynth      = "synth"
)

// Shape maps elapsed seconds since note onset to an amplitude multiplier.
type Shape interface {
	Name() string
	Amplitude(elapsed float64) float64
}

// Params configures shape construction. Zero values select per-shape
// defaults.
type Params struct {
	AttackTime   float64 // linear attack ramp duration in seconds
	DecayRate    float64 // exponential decay rate in 1/s
	SustainLevel float64 // decay floor in [0, 1]
	DecayTime    float64 // synth: linear decay duration in seconds
}

// New resolves a shape name to an instance. Unknown names are an error;
// there is no default substitution.
func New(name string, p Params) (Shape, error) {
	switch name {
	case NamePercussive:
		return newDecaying(name, p, 0.005, 3.0, 0.0)
	case NamePluck:
		return newDecaying(name, p, 0.002, 8.0, 0.0)
	case NamePad:
		return newDecaying(name, p, 0.3, 0.4, 0.7)
	case NameSustained:
		return newDecaying(name, p, 0.02, 0.15, 0.9)
	case NameSynth:
		return NewSynth(p)
	default:
		return nil, fmt.Errorf("envelope: unknown envelope shape %q", name)
	}
}

func validateCommon(name string, attack, decayRate, sustain float64) error {
	if attack < 0 {
		return fmt.Errorf("envelope: %s attack time must be >= 0: %g", name, attack)
	}
	if decayRate < 0 {
		return fmt.Errorf("envelope: %s decay rate must be >= 0: %g", name, decayRate)
	}
	if sustain < 0 || sustain > 1 {
		return fmt.Errorf("envelope: %s sustain level must be in [0, 1]: %g", name, sustain)
	}
	return nil
}
