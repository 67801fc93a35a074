package output

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/engine/quality"
)

func newTestChain(t *testing.T) *Chain {
	t.Helper()
	c, err := NewChain(44100)
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	return c
}

func sineBlock(freq, amplitude, sampleRate float64, n int) []float64 {
	block := make([]float64, n)
	for i := range block {
		block[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return block
}

func TestChain_Defaults(t *testing.T) {
	c := newTestChain(t)
	if !c.MultibandEnabled() {
		t.Error("multiband stage should default on")
	}
	if c.ReverbSend() <= 0 || c.ReverbSend() > 1 {
		t.Errorf("reverb send default %g out of (0, 1]", c.ReverbSend())
	}
	if c.Running() {
		t.Error("chain should not start running")
	}
	if c.SampleRate() != 44100 {
		t.Errorf("sample rate = %g", c.SampleRate())
	}
}

func TestChain_ProcessBounded(t *testing.T) {
	c := newTestChain(t)

	// Drive well past the limiter threshold.
	block := sineBlock(440, 2.0, 44100, 44100)
	if err := c.Process(block); err != nil {
		t.Fatal(err)
	}
	// Skip the limiter attack transient, then require a near-ceiling
	// bound (-1 dB threshold, 20:1 above it).
	for i := 1000; i < len(block); i++ {
		if math.Abs(block[i]) > 1.2 {
			t.Fatalf("sample %d = %g escaped the limiter", i, block[i])
		}
	}
}

func TestChain_QuietSignalPassesClean(t *testing.T) {
	c := newTestChain(t)
	c.SetMultibandEnabled(false)
	if err := c.SetReverbSend(0); err != nil {
		t.Fatal(err)
	}
	c.Autogain().SetEnabled(false)

	block := sineBlock(440, 0.05, 44100, 8192)
	want := make([]float64, len(block))
	copy(want, block)

	if err := c.Process(block); err != nil {
		t.Fatal(err)
	}
	// Well below every threshold the chain is transparent.
	for i := range block {
		if math.Abs(block[i]-want[i]) > 0.01 {
			t.Fatalf("sample %d changed from %g to %g", i, want[i], block[i])
		}
	}
}

func TestChain_MultibandToggleChangesOutput(t *testing.T) {
	hot := sineBlock(440, 0.8, 44100, 8192)
	cold := make([]float64, len(hot))
	copy(cold, hot)

	on := newTestChain(t)
	on.Autogain().SetEnabled(false)
	if err := on.SetReverbSend(0); err != nil {
		t.Fatal(err)
	}
	if err := on.Process(hot); err != nil {
		t.Fatal(err)
	}

	off := newTestChain(t)
	off.Autogain().SetEnabled(false)
	if err := off.SetReverbSend(0); err != nil {
		t.Fatal(err)
	}
	off.SetMultibandEnabled(false)
	if err := off.Process(cold); err != nil {
		t.Fatal(err)
	}

	var diff float64
	for i := range hot {
		diff += math.Abs(hot[i] - cold[i])
	}
	if diff == 0 {
		t.Error("multiband stage has no effect on a hot signal")
	}
}

func TestChain_ReverbSendAddsTail(t *testing.T) {
	c := newTestChain(t)
	c.Autogain().SetEnabled(false)
	c.SetMultibandEnabled(false)
	if err := c.SetReverbSend(0.5); err != nil {
		t.Fatal(err)
	}

	// An impulse followed by silence: the tail must carry reverb energy.
	block := make([]float64, 44100)
	block[0] = 0.9
	if err := c.Process(block); err != nil {
		t.Fatal(err)
	}
	var tail float64
	for _, s := range block[4410:] {
		tail += math.Abs(s)
	}
	if tail == 0 {
		t.Error("no reverb tail after an impulse")
	}
}

func TestChain_AutogainTickGatedByRunning(t *testing.T) {
	c := newTestChain(t)
	fillMeter(c.Autogain(), 0.7) // loud enough to demand a cut

	c.AutogainTick()
	if got := c.Autogain().Gain(); got != 1 {
		t.Errorf("autogain adjusted while not running: %g", got)
	}

	c.SetRunning(true)
	c.AutogainTick()
	if got := c.Autogain().Gain(); got >= 1 {
		t.Errorf("autogain did not cut a loud signal while running: %g", got)
	}
}

func TestChain_ReinitializeForPreset(t *testing.T) {
	c := newTestChain(t)
	if err := c.ReinitializeAudio(quality.PresetFor(quality.Low)); err != nil {
		t.Fatal(err)
	}
	if got := c.SampleRate(); got != 22050 {
		t.Errorf("sample rate after reinitialize = %g, want 22050", got)
	}

	// The rebuilt chain still processes.
	block := sineBlock(440, 0.3, 22050, 2048)
	if err := c.Process(block); err != nil {
		t.Fatal(err)
	}
}

func TestChain_ParameterValidation(t *testing.T) {
	c := newTestChain(t)
	if err := c.SetReverbSend(1.5); err == nil {
		t.Error("expected error for reverb send > 1")
	}
	if err := c.SetMasterGain(-1); err == nil {
		t.Error("expected error for negative master gain")
	}
	if _, err := NewChain(0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestSynthesizeImpulseResponse_Decays(t *testing.T) {
	ir, err := SynthesizeImpulseResponse(44100, 1.0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(ir) != 44100 {
		t.Fatalf("length = %d, want 44100", len(ir))
	}
	head := blockEnergy(ir[:4410])
	tail := blockEnergy(ir[len(ir)-4410:])
	if tail >= head/10 {
		t.Errorf("impulse response barely decays: head %g, tail %g", head, tail)
	}

	again, err := SynthesizeImpulseResponse(44100, 1.0, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := range ir {
		if ir[i] != again[i] {
			t.Fatal("impulse response is not deterministic")
		}
	}
}

func TestSynthesizeImpulseResponse_Validation(t *testing.T) {
	if _, err := SynthesizeImpulseResponse(0, 1, 5); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := SynthesizeImpulseResponse(44100, 0, 5); err == nil {
		t.Error("expected error for zero length")
	}
	if _, err := SynthesizeImpulseResponse(44100, 1, 0); err == nil {
		t.Error("expected error for zero decay")
	}
}

func blockEnergy(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}
