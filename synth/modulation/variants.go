package modulation

import (
	"fmt"
	"math"
)

const (
	defaultVibratoDepth  = 0.004
	defaultVibratoRateHz = 5.2
	maxVibratoDepth      = 0.06

	// The secondary phase drift wanders the vibrato slowly so it does
	// not sound machine-steady.
	vibratoDriftRateHz = 0.13
	vibratoDriftAmount = 0.8
)

// Vibrato is a slow low-depth sinusoidal pitch modulation with a secondary
// slow phase drift for naturalism.
type Vibrato struct {
	identity
	depth  float64
	rateHz float64
}

// NewVibrato creates a vibrato modulation.
func NewVibrato(p Params) (*Vibrato, error) {
	depth := p.Depth
	if depth == 0 {
		depth = defaultVibratoDepth
	}
	if depth < 0 || depth > maxVibratoDepth {
		return nil, fmt.Errorf("modulation: vibrato depth must be in [0, %g]: %g", maxVibratoDepth, p.Depth)
	}
	rate := p.RateHz
	if rate == 0 {
		rate = defaultVibratoRateHz
	}
	if rate <= 0 {
		return nil, fmt.Errorf("modulation: vibrato rate must be > 0: %g", p.RateHz)
	}
	return &Vibrato{depth: depth, rateHz: rate}, nil
}

// Name returns the modulation identifier.
func (v *Vibrato) Name() string { return NameVibrato }

// FrequencyRatio returns the drifting vibrato pitch multiplier at time t.
func (v *Vibrato) FrequencyRatio(t float64) float64 {
	drift := vibratoDriftAmount * math.Sin(2*math.Pi*vibratoDriftRateHz*t)
	return 1 + v.depth*math.Sin(2*math.Pi*v.rateHz*t+drift)
}

// formantPeak is one bell-curve resonance in the formant modulation.
type formantPeak struct {
	centerRatio float64 // harmonic ratio of the peak center
	widthRatio  float64 // bell width in harmonic ratios
	gain        float64 // boost above the 0.3 floor
	driftRateHz float64 // slow center wander rate
	driftAmount float64 // center wander as a fraction of the ratio
}

// Formant shapes partial amplitudes with bell-curve resonance peaks whose
// centers drift slowly over the note, evolving the vowel-like color.
type Formant struct {
	identity
	peaks []formantPeak
	floor float64
}

// NewFormant creates the drifting two-peak formant modulation.
func NewFormant() *Formant {
	return &Formant{
		peaks: []formantPeak{
			{centerRatio: 2.2, widthRatio: 1.1, gain: 0.7, driftRateHz: 0.27, driftAmount: 0.25},
			{centerRatio: 5.6, widthRatio: 1.8, gain: 0.4, driftRateHz: 0.11, driftAmount: 0.35},
		},
		floor: 0.3,
	}
}

// Name returns the modulation identifier.
func (f *Formant) Name() string { return NameFormant }

// PartialAmplitude returns the formant weighting for a partial at time t.
func (f *Formant) PartialAmplitude(partialFreq, fundamental, t, _ float64) float64 {
	if fundamental <= 0 {
		return 1
	}
	ratio := partialFreq / fundamental
	weight := f.floor
	for _, p := range f.peaks {
		center := p.centerRatio * (1 + p.driftAmount*math.Sin(2*math.Pi*p.driftRateHz*t))
		d := (ratio - center) / p.widthRatio
		weight += p.gain * math.Exp(-d*d)
	}
	if weight > 1 {
		weight = 1
	}
	return weight
}

const (
	defaultRolloffCutoffRatio = 8.0
	defaultRolloffDecayTau    = 0.5
	rolloffSteepness          = 0.8
)

// Rolloff darkens the tone over time: partials above a time-varying cutoff
// ratio decay exponentially with their distance above it, and the cutoff
// itself falls as the note ages.
type Rolloff struct {
	identity
	cutoffRatio float64
	decayTau    float64
}

// NewRolloff creates a rolloff modulation.
func NewRolloff(p Params) (*Rolloff, error) {
	cutoff := p.CutoffRatio
	if cutoff == 0 {
		cutoff = defaultRolloffCutoffRatio
	}
	if cutoff < 1 {
		return nil, fmt.Errorf("modulation: rolloff cutoff ratio must be >= 1: %g", p.CutoffRatio)
	}
	tau := p.DecayTau
	if tau == 0 {
		tau = defaultRolloffDecayTau
	}
	if tau <= 0 {
		return nil, fmt.Errorf("modulation: rolloff decay time constant must be > 0: %g", p.DecayTau)
	}
	return &Rolloff{cutoffRatio: cutoff, decayTau: tau}, nil
}

// Name returns the modulation identifier.
func (r *Rolloff) Name() string { return NameRolloff }

// PartialAmplitude returns the rolloff weighting for a partial at time t.
func (r *Rolloff) PartialAmplitude(partialFreq, fundamental, t, _ float64) float64 {
	if fundamental <= 0 {
		return 1
	}
	ratio := partialFreq / fundamental
	cutoff := 1 + (r.cutoffRatio-1)*math.Exp(-t/r.decayTau)
	if ratio <= cutoff {
		return 1
	}
	return math.Exp(-rolloffSteepness * (ratio - cutoff))
}

const defaultHarmonicDecayRate = 1.5

// HarmonicDecay fades each partial at a rate proportional to its harmonic
// ratio, so upper partials die first the way struck and plucked tones do.
type HarmonicDecay struct {
	identity
	rate float64
}

// NewHarmonicDecay creates a harmonic-decay modulation.
func NewHarmonicDecay(p Params) (*HarmonicDecay, error) {
	rate := p.DecayRate
	if rate == 0 {
		rate = defaultHarmonicDecayRate
	}
	if rate <= 0 {
		return nil, fmt.Errorf("modulation: harmonic decay rate must be > 0: %g", p.DecayRate)
	}
	return &HarmonicDecay{rate: rate}, nil
}

// Name returns the modulation identifier.
func (h *HarmonicDecay) Name() string { return NameHarmonicDecay }

// PartialAmplitude returns the per-partial decay at time t. The
// fundamental keeps unit gain; a partial of ratio r decays r times as
// fast as the base rate.
func (h *HarmonicDecay) PartialAmplitude(partialFreq, fundamental, t, _ float64) float64 {
	if fundamental <= 0 {
		return 1
	}
	ratio := partialFreq / fundamental
	if ratio <= 1 {
		return 1
	}
	return math.Exp(-h.rate * (ratio - 1) * t)
}
