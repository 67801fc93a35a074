package output

import (
	"testing"
	"time"
)

// fakeClock drives gain ramps deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestGain(value float64) (*Gain, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	g := NewGain(value)
	g.now = clk.now
	return g, clk
}

func TestGain_RampInterpolatesLinearly(t *testing.T) {
	g, clk := newTestGain(1)
	g.RampTo(0, 4*time.Second)

	clk.advance(1 * time.Second)
	if got := g.Value(); got < 0.74 || got > 0.76 {
		t.Errorf("quarter-ramp value = %g, want 0.75", got)
	}
	clk.advance(1 * time.Second)
	if got := g.Value(); got < 0.49 || got > 0.51 {
		t.Errorf("half-ramp value = %g, want 0.5", got)
	}
	clk.advance(3 * time.Second)
	if got := g.Value(); got != 0 {
		t.Errorf("post-ramp value = %g, want 0", got)
	}
	if g.IsRamping() {
		t.Error("ramp still flagged after completion")
	}
}

func TestGain_RampStartsFromCurrentValue(t *testing.T) {
	g, clk := newTestGain(1)
	g.RampTo(0, 4*time.Second)
	clk.advance(2 * time.Second)

	// Re-target mid-flight: the new ramp starts at 0.5, not at 1.
	g.RampTo(1, 1*time.Second)
	clk.advance(500 * time.Millisecond)
	if got := g.Value(); got < 0.74 || got > 0.76 {
		t.Errorf("re-targeted ramp value = %g, want 0.75", got)
	}
}

func TestGain_CancelFreezesValue(t *testing.T) {
	g, clk := newTestGain(1)
	g.RampTo(0, 2*time.Second)
	clk.advance(1 * time.Second)
	g.CancelRamp()

	clk.advance(10 * time.Second)
	if got := g.Value(); got < 0.49 || got > 0.51 {
		t.Errorf("cancelled value drifted to %g, want 0.5", got)
	}
}

func TestGain_SetSnapsAndCancels(t *testing.T) {
	g, clk := newTestGain(0)
	g.RampTo(1, time.Second)
	g.Set(0.3)
	clk.advance(2 * time.Second)
	if got := g.Value(); got != 0.3 {
		t.Errorf("value = %g, want snapped 0.3", got)
	}
}

func TestVoice_ConsumesOnce(t *testing.T) {
	pool := NewNodePool()
	v := pool.Get([]float64{0.1, 0.2, 0.3}, 0.5, 2)
	if v.Slot() != 2 || v.Gain() != 0.5 {
		t.Fatalf("voice carries slot %d gain %g", v.Slot(), v.Gain())
	}
	var got []float64
	for !v.Done() {
		got = append(got, v.Next())
	}
	if len(got) != 3 || got[0] != 0.1 || got[2] != 0.3 {
		t.Errorf("drained %v, want the buffer in order", got)
	}
	if v.Next() != 0 {
		t.Error("exhausted voice must produce silence")
	}
	pool.Put(v)
}

func TestNodePool_ReusedVoiceRestarts(t *testing.T) {
	pool := NewNodePool()
	v := pool.Get([]float64{1, 2}, 1, 0)
	v.Next()
	v.Next()
	pool.Put(v)

	w := pool.Get([]float64{7}, 1, 1)
	if w.Done() {
		t.Fatal("reused voice reported done before playing")
	}
	if got := w.Next(); got != 7 {
		t.Errorf("reused voice sample = %g, want 7", got)
	}
}
