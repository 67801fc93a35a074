package harmonics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/synth"
)

const (
	defaultSeriesInharmonicity = 0.0002
	defaultSeriesMaxPartials   = 16
	seriesMaxPartialCeiling    = 64
)

// Series is the standard harmonic series with frequency-dependent
// inharmonicity: higher fundamentals stretch their upper partials more,
// the way stiff strings do. Amplitudes roll off as 1/n.
type Series struct {
	inharmonicity float64
	maxPartials   int
}

// NewSeries creates a harmonic-series model.
func NewSeries(p Params) (*Series, error) {
	b := p.Inharmonicity
	if b == 0 {
		b = defaultSeriesInharmonicity
	}
	if b < 0 {
		return nil, fmt.Errorf("harmonics: series inharmonicity must be >= 0: %g", p.Inharmonicity)
	}
	n := p.MaxPartials
	if n == 0 {
		n = defaultSeriesMaxPartials
	}
	if n < 1 || n > seriesMaxPartialCeiling {
		return nil, fmt.Errorf("harmonics: series partial count must be in [1, %d]: %d", seriesMaxPartialCeiling, p.MaxPartials)
	}
	return &Series{inharmonicity: b, maxPartials: n}, nil
}

// Name returns the model identifier.
func (s *Series) Name() string { return NameSeries }

// Partials returns up to maxPartials stretched harmonics below the Nyquist
// safety limit.
func (s *Series) Partials(freq float64, _ int, sampleRate float64) []synth.Harmonic {
	limit := synth.NyquistLimit(sampleRate)
	out := make([]synth.Harmonic, 0, s.maxPartials)

	// Stretching grows with the fundamental: b scales the n^2 term the
	// same way string stiffness scales with sounding pitch.
	b := s.inharmonicity * (1 + freq/2000)
	for n := 1; n <= s.maxPartials; n++ {
		fn := float64(n)
		partial := freq * fn * math.Sqrt(1+b*fn*fn)
		out = appendPartial(out, partial, 1/fn, limit)
	}
	return out
}
