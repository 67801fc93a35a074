// Package output owns the mastering signal path of the audio session:
// master gain into a dry branch and a reverb send, an optional 3-band
// dynamics stage on the dry branch, a near-brickwall limiter merging both
// branches, and a closed-loop autogain stage after the limiter. It also
// provides the mutable playback nodes (gains, voices) and their pool.
//
// The chain processes mono blocks and is single-threaded; parameter
// changes belong outside the audio callback.
package output

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-dsp/dsp/effects/reverb"

	"github.com/cwbudde/algo-synth/engine/quality"
)

const (
	// Crossover points of the 3-band dynamics stage.
	crossoverLowHz  = 500.0
	crossoverHighHz = 5000.0
	crossoverOrder  = 4

	// Limiter tuning: near-brickwall with a fast clamp.
	limiterRatio     = 20.0
	limiterThreshold = -1.0
	limiterAttackMs  = 1.0
	limiterReleaseMs = 50.0

	// Reverb kernel defaults. SendLevel stays conservative because the
	// send merges into the limiter with no band-count compensation.
	reverbSeconds     = 1.5
	reverbDecay       = 5.0
	reverbBlockOrder  = 8
	defaultReverbSend = 0.25

	defaultMasterGain = 1.0
)

// Chain is the fixed mastering path of one audio session.
//
// Signal flow:
//
//	input → master gain → ┬ [3-band dynamics]* → ╲
//	                      └ reverb send ────────→ + → limiter → autogain → output
//
// (*) togglable; when off the dry branch feeds the limiter directly. The
// reverb send always bypasses the dynamics stage so the same transient is
// never compressed twice.
type Chain struct {
	sampleRate float64
	masterGain float64

	multiband        *dynamics.MultibandCompressor
	multibandEnabled bool

	limiter *dynamics.Compressor

	reverb     *reverb.ConvolutionReverb
	reverbSend float64

	autogain *Autogain

	running bool
	wet     []float64
}

// NewChain creates a mastering chain for a sample rate.
func NewChain(sampleRate float64) (*Chain, error) {
	c := &Chain{
		masterGain:       defaultMasterGain,
		multibandEnabled: true,
		reverbSend:       defaultReverbSend,
	}
	ag, err := NewAutogain(sampleRate)
	if err != nil {
		return nil, err
	}
	c.autogain = ag
	if err := c.rebuild(sampleRate); err != nil {
		return nil, err
	}
	return c, nil
}

// rebuild constructs all sample-rate-dependent processors.
func (c *Chain) rebuild(sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("output: chain sample rate must be > 0: %g", sampleRate)
	}

	mb, err := dynamics.NewMultibandCompressorWithConfig(
		[]float64{crossoverLowHz, crossoverHighHz},
		crossoverOrder,
		sampleRate,
		bandConfigs(),
	)
	if err != nil {
		return fmt.Errorf("output: multiband stage: %w", err)
	}

	lim, err := newLimiter(sampleRate)
	if err != nil {
		return err
	}

	ir, err := SynthesizeImpulseResponse(sampleRate, reverbSeconds, reverbDecay)
	if err != nil {
		return err
	}
	rv, err := reverb.NewConvolutionReverb(ir, reverbBlockOrder)
	if err != nil {
		return fmt.Errorf("output: reverb: %w", err)
	}
	rv.SetWetDry(1, 0) // send-style: wet only, dry arrives on its own branch

	c.sampleRate = sampleRate
	c.multiband = mb
	c.limiter = lim
	c.reverb = rv
	return c.autogain.SetSampleRate(sampleRate)
}

// bandConfigs tunes the three dynamics bands: gentle and slow in the low
// band, fastest attack and highest ratio in the high band for transient
// punch.
func bandConfigs() []dynamics.BandConfig {
	off := false
	return []dynamics.BandConfig{
		{
			ThresholdDB: dynamics.Float64Ptr(-24),
			Ratio:       3,
			AttackMs:    30,
			ReleaseMs:   250,
			AutoMakeup:  &off,
		},
		{
			ThresholdDB: dynamics.Float64Ptr(-20),
			Ratio:       4,
			AttackMs:    10,
			ReleaseMs:   150,
			AutoMakeup:  &off,
		},
		{
			ThresholdDB: dynamics.Float64Ptr(-18),
			Ratio:       6,
			AttackMs:    2,
			ReleaseMs:   80,
			AutoMakeup:  &off,
		},
	}
}

// newLimiter configures a compressor as the final near-brickwall limiter.
func newLimiter(sampleRate float64) (*dynamics.Compressor, error) {
	lim, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("output: limiter: %w", err)
	}
	for _, set := range []error{
		lim.SetRatio(limiterRatio),
		lim.SetThreshold(limiterThreshold),
		lim.SetAttack(limiterAttackMs),
		lim.SetRelease(limiterReleaseMs),
		lim.SetKnee(0),
		lim.SetAutoMakeup(false),
		lim.SetMakeupGain(0),
	} {
		if set != nil {
			return nil, fmt.Errorf("output: limiter: %w", set)
		}
	}
	return lim, nil
}

// Process runs one mono block through the chain in place.
func (c *Chain) Process(block []float64) error {
	n := len(block)
	if n == 0 {
		return nil
	}
	if len(c.wet) < n {
		c.wet = make([]float64, n)
	}
	wet := c.wet[:n]

	if c.masterGain != 1 {
		for i := range block {
			block[i] *= c.masterGain
		}
	}

	// Reverb send branches off before the dynamics stage.
	copy(wet, block)
	if err := c.reverb.ProcessInPlace(wet); err != nil {
		return err
	}

	if c.multibandEnabled {
		c.multiband.ProcessInPlace(block)
	}

	for i := range block {
		block[i] = c.limiter.ProcessSample(block[i] + c.reverbSend*wet[i])
	}

	c.autogain.Apply(block)
	c.autogain.Observe(block)
	return nil
}

// AutogainTick runs one autogain adjustment cycle. The cycle is skipped
// while the chain is not running; missing a cycle is harmless.
func (c *Chain) AutogainTick() {
	if !c.running {
		return
	}
	c.autogain.Tick()
}

// Autogain returns the autogain controller.
func (c *Chain) Autogain() *Autogain {
	return c.autogain
}

// ReinitializeAudio rebuilds the sample-rate-dependent processors for a
// quality preset. It implements the reinitialization contract of the
// quality monitor.
func (c *Chain) ReinitializeAudio(p quality.Preset) error {
	return c.rebuild(float64(p.SampleRate))
}

// SetRunning marks the output as live. Autogain cycles only run while
// live.
func (c *Chain) SetRunning(running bool) {
	c.running = running
}

// Running reports whether the output is live.
func (c *Chain) Running() bool {
	return c.running
}

// SetMasterGain sets the pre-chain master gain.
func (c *Chain) SetMasterGain(gain float64) error {
	if gain < 0 {
		return fmt.Errorf("output: master gain must be >= 0: %g", gain)
	}
	c.masterGain = gain
	return nil
}

// MasterGain returns the pre-chain master gain.
func (c *Chain) MasterGain() float64 {
	return c.masterGain
}

// SetMultibandEnabled toggles the 3-band dynamics stage. When off, the
// dry branch bypasses directly to the limiter.
func (c *Chain) SetMultibandEnabled(enabled bool) {
	c.multibandEnabled = enabled
}

// MultibandEnabled reports whether the dynamics stage is active.
func (c *Chain) MultibandEnabled() bool {
	return c.multibandEnabled
}

// SetReverbSend sets the reverb send level in [0, 1].
func (c *Chain) SetReverbSend(level float64) error {
	if level < 0 || level > 1 {
		return fmt.Errorf("output: reverb send must be in [0, 1]: %g", level)
	}
	c.reverbSend = level
	return nil
}

// ReverbSend returns the reverb send level.
func (c *Chain) ReverbSend() float64 {
	return c.reverbSend
}

// SampleRate returns the chain sample rate in Hz.
func (c *Chain) SampleRate() float64 {
	return c.sampleRate
}

// Reset clears all processor state.
func (c *Chain) Reset() {
	c.multiband.Reset()
	c.limiter.Reset()
	c.reverb.Reset()
	c.autogain.Reset()
}
