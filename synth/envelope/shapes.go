package envelope

import (
	"fmt"
	"math"
)

// Decaying is the attack-then-exponential-decay family: a linear ramp to
// full level over the attack time, then exponential decay toward the
// sustain floor. Percussive, pluck, pad, and sustained are all instances
// with different defaults.
type Decaying struct {
	name      string
	attack    float64
	decayRate float64
	sustain   float64
}

func newDecaying(name string, p Params, attack, decayRate, sustain float64) (*Decaying, error) {
	if p.AttackTime != 0 {
		attack = p.AttackTime
	}
	if p.DecayRate != 0 {
		decayRate = p.DecayRate
	}
	if p.SustainLevel != 0 {
		sustain = p.SustainLevel
	}
	if err := validateCommon(name, attack, decayRate, sustain); err != nil {
		return nil, err
	}
	return &Decaying{
		name:      name,
		attack:    attack,
		decayRate: decayRate,
		sustain:   sustain,
	}, nil
}

// Name returns the shape identifier.
func (d *Decaying) Name() string { return d.name }

// Amplitude returns the envelope multiplier at elapsed seconds.
func (d *Decaying) Amplitude(elapsed float64) float64 {
	if elapsed <= 0 {
		return 0
	}
	if d.attack > 0 && elapsed < d.attack {
		return elapsed / d.attack
	}
	decayed := math.Exp(-d.decayRate * (elapsed - d.attack))
	return d.sustain + (1-d.sustain)*decayed
}

const (
	defaultSynthAttack  = 0.01
	defaultSynthDecay   = 0.15
	defaultSynthSustain = 0.6
)

// Synth is a piecewise-linear ADSR-style shape: linear attack to full
// level, linear decay to the sustain level, then a held plateau. Release
// is shaped by the containing note duration, not by this envelope.
type Synth struct {
	attack  float64
	decay   float64
	sustain float64
}

// NewSynth creates a synth envelope.
func NewSynth(p Params) (*Synth, error) {
	attack := p.AttackTime
	if attack == 0 {
		attack = defaultSynthAttack
	}
	decay := p.DecayTime
	if decay == 0 {
		decay = defaultSynthDecay
	}
	sustain := p.SustainLevel
	if sustain == 0 {
		sustain = defaultSynthSustain
	}
	if err := validateCommon(NameSynth, attack, 0, sustain); err != nil {
		return nil, err
	}
	if decay < 0 {
		return nil, fmt.Errorf("envelope: synth decay time must be >= 0: %g", p.DecayTime)
	}
	return &Synth{attack: attack, decay: decay, sustain: sustain}, nil
}

// Name returns the shape identifier.
func (s *Synth) Name() string { return NameSynth }

// Amplitude returns the envelope multiplier at elapsed seconds.
func (s *Synth) Amplitude(elapsed float64) float64 {
	switch {
	case elapsed <= 0:
		return 0
	case s.attack > 0 && elapsed < s.attack:
		return elapsed / s.attack
	case s.decay > 0 && elapsed < s.attack+s.decay:
		progress := (elapsed - s.attack) / s.decay
		return 1 + (s.sustain-1)*progress
	default:
		return s.sustain
	}
}
