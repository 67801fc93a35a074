package method

import "math"

// Additive produces a pure sine tone. The orchestrating generator sums
// copies of it across the partial list, which is where the additive
// character comes from.
type Additive struct{}

// NewAdditive creates the additive base method.
func NewAdditive() *Additive {
	return &Additive{}
}

// Name returns the method identifier.
func (a *Additive) Name() string { return NameAdditive }

// Generate returns sin(2*pi*f*t).
func (a *Additive) Generate(freq, t float64) float64 {
	return math.Sin(2 * math.Pi * freq * t)
}
