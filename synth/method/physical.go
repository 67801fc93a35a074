package method

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/delay"
	"github.com/cwbudde/algo-dsp/dsp/signal"
)

const (
	defaultPhysicalDecay   = 0.996
	defaultPhysicalDamping = 0.5

	// maxStrings bounds the per-method string table. Least recently
	// played strings are evicted, so a long session over many distinct
	// pitches cannot grow state without limit.
	maxStrings = 32

	// excitationWindowSlope shapes the seed noise burst; larger values
	// front-load the excitation energy.
	excitationWindowSlope = 4.0
)

// Physical is a Karplus-Strong plucked-string model. Each distinct base
// frequency owns a delay line sized to one period; BeginNote (re)seeds the
// line with exponentially windowed noise and Step advances the loop one
// sample, applying a one-pole lowpass and feedback decay at the write
// position.
//
// Seeding is deterministic per base frequency, so renders of the same note
// are reproducible. The model is stateful and single-threaded; Step must
// be called once per output sample in time order.
type Physical struct {
	decay   float64
	damping float64
	strings *stringTable
	active  *pluckedString
}

type pluckedString struct {
	line         *delay.Line
	delaySamples float64
	lowpassState float64
}

// NewPhysical creates a physical modeling method. Zero decay/damping
// select the defaults (0.996 / 0.5).
func NewPhysical(p Params) (*Physical, error) {
	decay := p.Decay
	if decay == 0 {
		decay = defaultPhysicalDecay
	}
	damping := p.Damping
	if damping == 0 {
		damping = defaultPhysicalDamping
	}
	if decay <= 0 || decay > 1 {
		return nil, fmt.Errorf("method: physical decay must be in (0, 1]: %g", p.Decay)
	}
	if damping < 0 || damping >= 1 {
		return nil, fmt.Errorf("method: physical damping must be in [0, 1): %g", p.Damping)
	}
	return &Physical{
		decay:   decay,
		damping: damping,
		strings: newStringTable(maxStrings),
	}, nil
}

// Name returns the method identifier.
func (p *Physical) Name() string { return NamePhysical }

// BeginNote prepares the string for baseFreq, allocating its delay line on
// first use and reseeding it with a deterministic noise burst. The line is
// keyed by the unmodulated base frequency so vibrato applied later through
// Step does not change its length.
func (p *Physical) BeginNote(baseFreq, sampleRate float64) error {
	if baseFreq <= 0 {
		return fmt.Errorf("method: physical base frequency must be > 0: %g", baseFreq)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("method: physical sample rate must be > 0: %g", sampleRate)
	}
	period := sampleRate / baseFreq
	size := int(math.Ceil(period)) + 3
	if size < 8 {
		return fmt.Errorf("method: physical frequency %g too high for sample rate %g", baseFreq, sampleRate)
	}

	key := stringKey(baseFreq)
	s := p.strings.get(key)
	if s == nil {
		line, err := delay.New(size)
		if err != nil {
			return fmt.Errorf("method: physical delay line: %w", err)
		}
		s = &pluckedString{line: line}
		p.strings.put(key, s)
	}
	s.delaySamples = period
	s.lowpassState = 0

	if err := p.seed(s, key, sampleRate); err != nil {
		return err
	}
	p.active = s
	return nil
}

// Step advances the string by one sample. ratio skews the read position
// for vibrato: values above 1 shorten the effective string, raising pitch.
// Returns 0 if BeginNote has not been called.
func (p *Physical) Step(ratio float64) float64 {
	s := p.active
	if s == nil {
		return 0
	}
	if ratio <= 0 {
		ratio = 1
	}
	out := s.line.ReadFractional(s.delaySamples / ratio)
	filtered := out + p.damping*(s.lowpassState-out)
	s.lowpassState = filtered
	s.line.Write(filtered * p.decay)
	return out
}

// Generate steps the active string without vibrato. It exists to satisfy
// [Method]; orchestrators should drive the model through Step.
func (p *Physical) Generate(_, _ float64) float64 {
	return p.Step(1)
}

// Reset drops all string state.
func (p *Physical) Reset() {
	p.strings = newStringTable(maxStrings)
	p.active = nil
}

// seed fills the line with exponentially windowed white noise. The noise
// seed derives from the string key, so reseeding the same base frequency
// reproduces the same excitation.
func (p *Physical) seed(s *pluckedString, key int64, sampleRate float64) error {
	n := s.line.Len()
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(sampleRate)},
		signal.WithSeed(key),
	)
	noise, err := gen.WhiteNoise(1.0, n)
	if err != nil {
		return fmt.Errorf("method: physical excitation: %w", err)
	}
	s.line.Reset()
	for i, v := range noise {
		window := math.Exp(-excitationWindowSlope * float64(i) / float64(n))
		s.line.Write(v * window)
	}
	return nil
}

func stringKey(freq float64) int64 {
	return int64(math.Round(freq * 100))
}

// stringTable is a bounded least-recently-used table of plucked strings.
type stringTable struct {
	max     int
	entries map[int64]*pluckedString
	order   []int64 // least recently used first
}

func newStringTable(max int) *stringTable {
	return &stringTable{
		max:     max,
		entries: make(map[int64]*pluckedString, max),
	}
}

func (t *stringTable) get(key int64) *pluckedString {
	s, ok := t.entries[key]
	if !ok {
		return nil
	}
	t.touch(key)
	return s
}

func (t *stringTable) put(key int64, s *pluckedString) {
	if len(t.entries) >= t.max {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.entries, oldest)
	}
	t.entries[key] = s
	t.order = append(t.order, key)
}

func (t *stringTable) touch(key int64) {
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			t.order = append(t.order, key)
			return
		}
	}
}

func (t *stringTable) len() int {
	return len(t.entries)
}
