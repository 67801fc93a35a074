package output

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/signal"
)

// irNoiseSeed keeps the synthesized room response identical across
// sessions.
const irNoiseSeed = 20060

// SynthesizeImpulseResponse renders an exponentially decaying noise burst
// usable as a convolution reverb kernel. decay sets how many time
// constants fit into the length; larger values give a drier tail.
func SynthesizeImpulseResponse(sampleRate, seconds, decay float64) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("output: impulse response sample rate must be > 0: %g", sampleRate)
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("output: impulse response length must be > 0: %g", seconds)
	}
	if decay <= 0 {
		return nil, fmt.Errorf("output: impulse response decay must be > 0: %g", decay)
	}

	n := int(sampleRate * seconds)
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(sampleRate)},
		signal.WithSeed(irNoiseSeed),
	)
	ir, err := gen.WhiteNoise(1.0, n)
	if err != nil {
		return nil, fmt.Errorf("output: impulse response noise: %w", err)
	}
	var energy float64
	for i := range ir {
		ir[i] *= math.Exp(-decay * float64(i) / float64(n))
		energy += ir[i] * ir[i]
	}
	// Unit-energy kernel: the wet branch then carries roughly the dry
	// branch's level and the send control stays meaningful.
	if energy > 0 {
		scale := 1 / math.Sqrt(energy)
		for i := range ir {
			ir[i] *= scale
		}
	}
	return ir, nil
}
