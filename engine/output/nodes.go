package output

import (
	"sync"
	"time"
)

// Gain is a mutable gain node with linear ramp scheduling. A ramp always
// starts from the node's current value so overlapping schedules cannot
// jump the level; cancelling freezes the value where the ramp left it.
type Gain struct {
	value float64

	ramping   bool
	rampFrom  float64
	rampTo    float64
	rampStart time.Time
	rampFor   time.Duration

	now func() time.Time
}

// NewGain creates a gain node at the given initial value.
func NewGain(value float64) *Gain {
	return &Gain{value: value, now: time.Now}
}

// Value returns the current gain, resolving any in-flight ramp.
func (g *Gain) Value() float64 {
	if !g.ramping {
		return g.value
	}
	elapsed := g.now().Sub(g.rampStart)
	if elapsed >= g.rampFor {
		g.ramping = false
		g.value = g.rampTo
		return g.value
	}
	progress := float64(elapsed) / float64(g.rampFor)
	return g.rampFrom + (g.rampTo-g.rampFrom)*progress
}

// Set snaps the gain to a value, cancelling any ramp.
func (g *Gain) Set(value float64) {
	g.ramping = false
	g.value = value
}

// RampTo schedules a linear ramp from the current value to target over d.
// A non-positive duration snaps immediately.
func (g *Gain) RampTo(target float64, d time.Duration) {
	if d <= 0 {
		g.Set(target)
		return
	}
	g.rampFrom = g.Value()
	g.rampTo = target
	g.rampStart = g.now()
	g.rampFor = d
	g.ramping = true
}

// CancelRamp freezes the gain at its current resolved value.
func (g *Gain) CancelRamp() {
	g.value = g.Value()
	g.ramping = false
}

// IsRamping reports whether a ramp is in flight.
func (g *Gain) IsRamping() bool {
	_ = g.Value() // settle a completed ramp
	return g.ramping
}

// Voice is a playback node: a rendered sample buffer consumed once from
// start to end. Voices are pooled; the mixing loop drains them and
// returns them for reuse.
type Voice struct {
	samples []float64
	pos     int
	gain    float64
	slot    int
}

// Slot returns the timbre slot index the voice plays under.
func (v *Voice) Slot() int { return v.slot }

// Gain returns the per-voice gain.
func (v *Voice) Gain() float64 { return v.gain }

// Done reports whether the buffer is fully consumed.
func (v *Voice) Done() bool {
	return v.pos >= len(v.samples)
}

// Next returns the next sample, or 0 once the voice is done.
func (v *Voice) Next() float64 {
	if v.Done() {
		return 0
	}
	s := v.samples[v.pos]
	v.pos++
	return s
}

// NodePool reuses voice nodes to keep steady-state playback free of
// per-note allocation.
type NodePool struct {
	pool sync.Pool
}

// NewNodePool returns a NodePool ready for use.
func NewNodePool() *NodePool {
	return &NodePool{
		pool: sync.Pool{
			New: func() any {
				return &Voice{}
			},
		},
	}
}

// Get returns a voice playing samples at the given gain under a slot.
// The voice must be returned via Put once done.
func (p *NodePool) Get(samples []float64, gain float64, slot int) *Voice {
	v := p.pool.Get().(*Voice)
	v.samples = samples
	v.pos = 0
	v.gain = gain
	v.slot = slot
	return v
}

// Put returns a voice to the pool. The caller must not use it afterwards.
func (p *NodePool) Put(v *Voice) {
	if v == nil {
		return
	}
	v.samples = nil
	p.pool.Put(v)
}
