package output

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-approx"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultAutogainTargetDB = -12.0

	// Adjustment below silenceRMS is skipped entirely; there is nothing
	// meaningful to measure in near-silence.
	silenceRMS = 0.01

	// Makeup gain clamp: -12 dB to +6 dB.
	autogainMinGain = 0.25
	autogainMaxGain = 2.0

	// Each tick blends 85% of the previous gain with 15% of the newly
	// computed one, and changes below the minimum delta are dropped to
	// avoid churn.
	autogainSmoothingOld = 0.85
	autogainMinDelta     = 0.001

	// Applied gain approaches the control value with a ~0.2s ramp
	// rather than stepping.
	autogainRampSeconds = 0.2

	// meterWindow is the number of recent output samples the RMS
	// measurement covers.
	meterWindow = 2048

	ln10 = 2.302585092994046
)

// Autogain is a closed-loop makeup gain controller: it measures the RMS
// of recent output, compares it against a target level, and eases a gain
// multiplier toward the correction. Measurement happens per processed
// block; adjustment happens on the caller's tick schedule.
type Autogain struct {
	enabled  bool
	targetDB float64

	desired float64 // control-loop output
	gain    float64 // ramp-smoothed applied value
	ramp    float64 // per-sample ramp coefficient

	meter  [meterWindow]float64
	meterN int
	next   int
}

// NewAutogain creates an autogain controller for a sample rate.
func NewAutogain(sampleRate float64) (*Autogain, error) {
	a := &Autogain{
		enabled:  true,
		targetDB: defaultAutogainTargetDB,
		desired:  1,
		gain:     1,
	}
	if err := a.SetSampleRate(sampleRate); err != nil {
		return nil, err
	}
	return a, nil
}

// SetSampleRate updates the ramp time constant. Gain state carries over.
func (a *Autogain) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("output: autogain sample rate must be > 0: %g", sampleRate)
	}
	a.ramp = 1 - math.Exp(-1/(autogainRampSeconds*sampleRate))
	return nil
}

// SetEnabled toggles the controller. A disabled controller applies unity
// gain but keeps measuring, so re-enabling resumes smoothly.
func (a *Autogain) SetEnabled(enabled bool) {
	a.enabled = enabled
}

// Enabled reports whether the controller is active.
func (a *Autogain) Enabled() bool {
	return a.enabled
}

// SetTargetLevel sets the target output level in dB (negative, typically
// -12).
func (a *Autogain) SetTargetLevel(dB float64) error {
	if dB > 0 || math.IsNaN(dB) || math.IsInf(dB, 0) {
		return fmt.Errorf("output: autogain target must be <= 0 dB: %g", dB)
	}
	a.targetDB = dB
	return nil
}

// Gain returns the control-loop gain value.
func (a *Autogain) Gain() float64 {
	return a.desired
}

// Observe feeds processed output into the measurement window.
func (a *Autogain) Observe(block []float64) {
	for _, s := range block {
		a.meter[a.next] = s
		a.next = (a.next + 1) % meterWindow
	}
	a.meterN += len(block)
	if a.meterN > meterWindow {
		a.meterN = meterWindow
	}
}

// RMS returns the root mean square of the measurement window.
func (a *Autogain) RMS() float64 {
	if a.meterN == 0 {
		return 0
	}
	window := a.meter[:a.meterN]
	return math.Sqrt(vecmath.DotProduct(window, window) / float64(a.meterN))
}

// Tick runs one adjustment cycle. Callers schedule it on the active
// quality preset's interval and skip the call while the output is not
// running; the controller itself additionally skips near-silence.
func (a *Autogain) Tick() {
	if !a.enabled {
		return
	}
	rms := a.RMS()
	if rms < silenceRMS {
		return
	}

	levelDB := 20 * approx.FastLog(rms) / ln10
	deltaDB := a.targetDB - levelDB
	target := approx.FastExp(deltaDB / 20 * ln10)
	if target < autogainMinGain {
		target = autogainMinGain
	}
	if target > autogainMaxGain {
		target = autogainMaxGain
	}

	smoothed := autogainSmoothingOld*a.desired + (1-autogainSmoothingOld)*target
	if math.Abs(smoothed-a.desired) < autogainMinDelta {
		return
	}
	a.desired = smoothed
}

// Apply scales the block by the ramped gain, advancing the ramp one
// sample at a time.
func (a *Autogain) Apply(block []float64) {
	if !a.enabled {
		return
	}
	for i := range block {
		a.gain += (a.desired - a.gain) * a.ramp
		block[i] *= a.gain
	}
}

// Reset restores unity gain and clears the measurement window.
func (a *Autogain) Reset() {
	a.desired = 1
	a.gain = 1
	a.meter = [meterWindow]float64{}
	a.meterN = 0
	a.next = 0
}
