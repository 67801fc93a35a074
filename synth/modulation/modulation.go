// Package modulation provides the time-varying timbre models of the
// synthesis core. A modulation answers three independent queries (a
// per-partial amplitude multiplier, an overall frequency ratio, and an
// overall amplitude ratio), each defaulting to identity (1.0) and
// overridden selectively per variant.
//
// The "none" variant is detectable by name; orchestrators skip the
// per-sample queries entirely when it is selected, which matters in the
// synthesis hot path.
package modulation

import "fmt"

// Modulation names accepted by New.
const (
	NameNone          = "none"
	NameVibrato       = "vibrato"
	NameFormant       = "formant"
	NameRolloff       = "rolloff"
	NameHarmonicDecay = "harmonicdecay"
)

// Modulation supplies time-varying multipliers during synthesis. All
// methods return 1.0 when the variant does not shape that dimension.
type Modulation interface {
	Name() string

	// PartialAmplitude returns the multiplier for one partial at time t
	// within a note of the given duration.
	PartialAmplitude(partialFreq, fundamental, t, duration float64) float64

	// FrequencyRatio returns the pitch multiplier at time t.
	FrequencyRatio(t float64) float64

	// AmplitudeRatio returns the overall level multiplier at time t.
	AmplitudeRatio(t float64) float64
}

// Params configures modulation construction. Zero values select per-variant
// defaults.
type Params struct {
	Depth       float64 // vibrato depth as a pitch fraction (default 0.004)
	RateHz      float64 // vibrato rate (default 5.2)
	CutoffRatio float64 // rolloff: starting cutoff as a harmonic ratio (default 8)
	DecayTau    float64 // rolloff: cutoff decay time constant in seconds (default 0.5)
	DecayRate   float64 // harmonicdecay: base decay rate in 1/s (default 1.5)
}

// New resolves a modulation name to an instance. Unknown names are an
// error; there is no default substitution.
func New(name string, p Params) (Modulation, error) {
	switch name {
	case NameNone:
		return None{}, nil
	case NameVibrato:
		return NewVibrato(p)
	case NameFormant:
		return NewFormant(), nil
	case NameRolloff:
		return NewRolloff(p)
	case NameHarmonicDecay:
		return NewHarmonicDecay(p)
	default:
		return nil, fmt.Errorf("modulation: unknown modulation %q", name)
	}
}

// identity supplies the three no-op queries; variants embed it and
// override what they shape.
type identity struct{}

func (identity) PartialAmplitude(_, _, _, _ float64) float64 { return 1 }
func (identity) FrequencyRatio(_ float64) float64            { return 1 }
func (identity) AmplitudeRatio(_ float64) float64            { return 1 }

// None is the identity modulation. Orchestrators detect it by name and
// skip per-sample modulation work.
type None struct {
	identity
}

// Name returns the modulation identifier.
func (None) Name() string { return NameNone }
