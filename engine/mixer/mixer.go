// Package mixer manages the loaded timbre slots of a playback session:
// which slot is audible, timed crossfades between slots, and the
// playlist auto-advance modes. Each slot owns a gain node and a lazily
// built set of note generators for its timbre.
package mixer

import (
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/algo-synth/engine/output"
	"github.com/cwbudde/algo-synth/synth/generator"
)

// NumLayers is the number of generator layers per timbre. Layer 0 is
// the primary voice, layer 1 a supporting body layer mixed underneath.
const NumLayers = 2

// DefaultCrossfadeBars is the crossfade length in 4/4 bars when the
// caller does not pick one.
const DefaultCrossfadeBars = 4

// Timbre is a named per-layer synthesis recipe for one sound slot.
type Timbre struct {
	Name   string
	Layers [NumLayers]generator.Config
}

type slot struct {
	gain       *output.Gain
	timbre     Timbre
	generators [NumLayers]*generator.Generator
}

type crossfade struct {
	from       int
	to         int
	start      time.Time
	duration   time.Duration
	fromVolume float64
	timer      *time.Timer
	onComplete func()
}

// progress returns the fade position in [0, 1] at time t.
func (f *crossfade) progress(t time.Time) float64 {
	p := float64(t.Sub(f.start)) / float64(f.duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Manager tracks the sound slots of one session. The audio render loop
// and the completion timer touch it from different goroutines, so all
// state is guarded by one mutex.
type Manager struct {
	mu         sync.Mutex
	slots      []*slot
	active     int
	fade       *crossfade
	mode       AutoMode
	selectNext func(active, numSounds int) int
	quality    generator.QualitySource

	now       func() time.Time
	afterFunc func(time.Duration, func()) *time.Timer
}

// NewManager creates a manager with one slot per timbre. The first slot
// starts active at full gain; the rest are silent.
func NewManager(timbres []Timbre) (*Manager, error) {
	if len(timbres) == 0 {
		return nil, fmt.Errorf("mixer: need at least one timbre")
	}
	m := &Manager{
		slots:      make([]*slot, len(timbres)),
		selectNext: rotateSelector,
		now:        time.Now,
		afterFunc:  time.AfterFunc,
	}
	for i, tb := range timbres {
		gain := 0.0
		if i == 0 {
			gain = 1.0
		}
		m.slots[i] = &slot{gain: output.NewGain(gain), timbre: tb}
	}
	return m, nil
}

func rotateSelector(active, numSounds int) int {
	return (active + 1) % numSounds
}

// NumSounds returns the number of managed slots.
func (m *Manager) NumSounds() int {
	return len(m.slots)
}

// ActiveSound returns the index of the audible slot. During a crossfade
// this is still the outgoing slot; it commits to the target on
// completion.
func (m *Manager) ActiveSound() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// IsCrossfading reports whether a crossfade is in flight.
func (m *Manager) IsCrossfading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fade != nil
}

// SetQualitySource attaches the preset supplier handed to every slot
// generator. Existing generator sets are dropped so they pick it up on
// next use.
func (m *Manager) SetQualitySource(q generator.QualitySource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quality = q
	for _, s := range m.slots {
		s.generators = [NumLayers]*generator.Generator{}
	}
}

// Timbre returns the timbre loaded in a slot.
func (m *Manager) Timbre(slotIdx int) (Timbre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkSlot(slotIdx); err != nil {
		return Timbre{}, err
	}
	return m.slots[slotIdx].timbre, nil
}

// SetTimbre loads a timbre into a slot and invalidates the slot's
// generator set.
func (m *Manager) SetTimbre(slotIdx int, tb Timbre) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkSlot(slotIdx); err != nil {
		return err
	}
	s := m.slots[slotIdx]
	s.timbre = tb
	s.generators = [NumLayers]*generator.Generator{}
	return nil
}

// Generator returns the slot's generator for one layer, building it on
// first use from the slot's timbre.
func (m *Manager) Generator(slotIdx, layer int) (*generator.Generator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkSlot(slotIdx); err != nil {
		return nil, err
	}
	if layer < 0 || layer >= NumLayers {
		return nil, fmt.Errorf("mixer: layer out of range [0, %d): %d", NumLayers, layer)
	}
	s := m.slots[slotIdx]
	if s.generators[layer] == nil {
		g, err := generator.New(s.timbre.Layers[layer])
		if err != nil {
			return nil, fmt.Errorf("mixer: slot %d timbre %q: %w", slotIdx, s.timbre.Name, err)
		}
		if m.quality != nil {
			g.SetQualitySource(m.quality)
		}
		s.generators[layer] = g
	}
	return s.generators[layer], nil
}

// StartCrossfade fades from the active slot to target over the given
// number of 4/4 bars at the given tempo; bars <= 0 selects
// DefaultCrossfadeBars. A no-op when a fade is already in flight or
// target is already active. The outgoing slot fades from its current
// gain, not from full, so overlapping operations never jump the level.
// onComplete, if non-nil, runs after the fade commits.
func (m *Manager) StartCrossfade(target int, bpm float64, bars int, onComplete func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCrossfadeLocked(target, bpm, bars, onComplete)
}

func (m *Manager) startCrossfadeLocked(target int, bpm float64, bars int, onComplete func()) error {
	if err := m.checkSlot(target); err != nil {
		return err
	}
	if bpm <= 0 {
		return fmt.Errorf("mixer: crossfade tempo must be > 0: %g", bpm)
	}
	if m.fade != nil || target == m.active {
		return nil
	}
	if bars <= 0 {
		bars = DefaultCrossfadeBars
	}
	duration := time.Duration(float64(bars) * 240 / bpm * float64(time.Second))
	f := &crossfade{
		from:       m.active,
		to:         target,
		start:      m.now(),
		duration:   duration,
		fromVolume: m.slots[m.active].gain.Value(),
		onComplete: onComplete,
	}
	f.timer = m.afterFunc(duration, m.finishCrossfade)
	m.fade = f
	return nil
}

func (m *Manager) finishCrossfade() {
	m.mu.Lock()
	f := m.fade
	if f == nil {
		m.mu.Unlock()
		return
	}
	m.slots[f.from].gain.Set(0)
	m.slots[f.to].gain.Set(1)
	m.active = f.to
	m.fade = nil
	m.mu.Unlock()

	if f.onComplete != nil {
		f.onComplete()
	}
}

// SetActiveSound cancels any in-flight crossfade and snaps gains so
// that only target is audible.
func (m *Manager) SetActiveSound(target int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setActiveSoundLocked(target)
}

func (m *Manager) setActiveSoundLocked(target int) error {
	if err := m.checkSlot(target); err != nil {
		return err
	}
	if m.fade != nil {
		m.fade.timer.Stop()
		m.fade = nil
	}
	for i, s := range m.slots {
		if i == target {
			s.gain.Set(1)
		} else {
			s.gain.Set(0)
		}
	}
	m.active = target
	return nil
}

// SlotGain returns the effective gain of a slot in [0, 1], interpolated
// in real time during a crossfade. The render loop multiplies each
// voice by its slot's gain.
func (m *Manager) SlotGain(slotIdx int) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkSlot(slotIdx); err != nil {
		return 0, err
	}
	return m.slotGainLocked(slotIdx), nil
}

// SoundVolume returns a slot's volume as a percentage in [0, 100].
func (m *Manager) SoundVolume(slotIdx int) (float64, error) {
	g, err := m.SlotGain(slotIdx)
	if err != nil {
		return 0, err
	}
	return g * 100, nil
}

func (m *Manager) slotGainLocked(slotIdx int) float64 {
	if f := m.fade; f != nil {
		p := f.progress(m.now())
		switch slotIdx {
		case f.to:
			return p
		case f.from:
			return f.fromVolume * (1 - p)
		}
	}
	return m.slots[slotIdx].gain.Value()
}

// Stop cancels any in-flight crossfade, freezing slot gains at their
// current interpolated values.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.fade
	if f == nil {
		return
	}
	p := f.progress(m.now())
	f.timer.Stop()
	m.slots[f.from].gain.Set(f.fromVolume * (1 - p))
	m.slots[f.to].gain.Set(p)
	m.fade = nil
}

// AudibleSlots returns the slots that should receive newly scheduled
// voices: the active slot plus, during a crossfade, the incoming slot.
func (m *Manager) AudibleSlots() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fade != nil {
		return []int{m.active, m.fade.to}
	}
	return []int{m.active}
}

func (m *Manager) checkSlot(i int) error {
	if i < 0 || i >= len(m.slots) {
		return fmt.Errorf("mixer: slot out of range [0, %d): %d", len(m.slots), i)
	}
	return nil
}
