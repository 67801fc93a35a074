package method

import (
	"fmt"
	"math"
)

const (
	defaultFMModIndex = 2.0
	defaultFMModRatio = 2.0

	maxFMModIndex = 20.0
	maxFMModRatio = 16.0
)

// FM is a two-operator frequency modulation method: a sine carrier whose
// phase is modulated by a second sine running at a fixed ratio of the
// carrier frequency.
type FM struct {
	modIndex float64
	modRatio float64
}

// NewFM creates an FM method from params. Zero index/ratio select the
// defaults (2.0 / 2.0).
func NewFM(p Params) (*FM, error) {
	idx := p.ModIndex
	if idx == 0 {
		idx = defaultFMModIndex
	}
	ratio := p.ModRatio
	if ratio == 0 {
		ratio = defaultFMModRatio
	}
	if idx < 0 || idx > maxFMModIndex {
		return nil, fmt.Errorf("method: fm modulation index must be in [0, %g]: %g", maxFMModIndex, idx)
	}
	if ratio <= 0 || ratio > maxFMModRatio {
		return nil, fmt.Errorf("method: fm modulator ratio must be in (0, %g]: %g", maxFMModRatio, ratio)
	}
	return &FM{modIndex: idx, modRatio: ratio}, nil
}

// Name returns the method identifier.
func (f *FM) Name() string { return NameFM }

// Generate returns sin(2*pi*f*t + index*sin(2*pi*ratio*f*t)).
func (f *FM) Generate(freq, t float64) float64 {
	mod := math.Sin(2 * math.Pi * f.modRatio * freq * t)
	return math.Sin(2*math.Pi*freq*t + f.modIndex*mod)
}
