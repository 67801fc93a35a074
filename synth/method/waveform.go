package method

import (
	"fmt"
	"math"
)

// Waveform shapes accepted by NewWaveform.
const (
	ShapeSawtooth = "sawtooth"
	ShapeSquare   = "square"
	ShapeTriangle = "triangle"
	ShapeSine     = "sine"
)

// Waveform generates a classic oscillator shape from the closed-form
// per-sample formula, using phase = (t*f) mod 1.
type Waveform struct {
	shape string
}

// NewWaveform creates a waveform method. An empty shape selects sawtooth;
// unknown shapes are an error.
func NewWaveform(p Params) (*Waveform, error) {
	shape := p.Shape
	if shape == "" {
		shape = ShapeSawtooth
	}
	switch shape {
	case ShapeSawtooth, ShapeSquare, ShapeTriangle, ShapeSine:
	default:
		return nil, fmt.Errorf("method: unknown waveform shape %q", p.Shape)
	}
	return &Waveform{shape: shape}, nil
}

// Name returns the method identifier.
func (w *Waveform) Name() string { return NameWaveform }

// Shape returns the configured waveform shape.
func (w *Waveform) Shape() string { return w.shape }

// Generate returns one sample of the configured shape.
func (w *Waveform) Generate(freq, t float64) float64 {
	phase := t * freq
	phase -= math.Floor(phase)

	switch w.shape {
	case ShapeSawtooth:
		return 2*phase - 1
	case ShapeSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case ShapeTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	default: // sine
		return math.Sin(2 * math.Pi * phase)
	}
}
