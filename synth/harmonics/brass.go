package harmonics

import (
	"fmt"

	"github.com/cwbudde/algo-synth/synth"
)

const (
	defaultBrassMaxPartials = 12
	brassOddEmphasis        = 2.0
)

// Brass is a harmonic series with emphasized odd harmonics, giving the
// bright, slightly hollow bite of cylindrical-bore brass.
type Brass struct {
	maxPartials int
}

// NewBrass creates a brass spectral model.
func NewBrass(p Params) (*Brass, error) {
	n := p.MaxPartials
	if n == 0 {
		n = defaultBrassMaxPartials
	}
	if n < 1 || n > seriesMaxPartialCeiling {
		return nil, fmt.Errorf("harmonics: brass partial count must be in [1, %d]: %d", seriesMaxPartialCeiling, p.MaxPartials)
	}
	return &Brass{maxPartials: n}, nil
}

// Name returns the model identifier.
func (b *Brass) Name() string { return NameBrass }

// Partials returns the odd-emphasized harmonic series below the Nyquist
// safety limit.
func (b *Brass) Partials(freq float64, _ int, sampleRate float64) []synth.Harmonic {
	limit := synth.NyquistLimit(sampleRate)
	out := make([]synth.Harmonic, 0, b.maxPartials)
	for n := 1; n <= b.maxPartials; n++ {
		fn := float64(n)
		amp := 1 / fn
		if n > 1 && n%2 == 1 {
			amp *= brassOddEmphasis
		}
		out = appendPartial(out, freq*fn, amp, limit)
	}
	return out
}
