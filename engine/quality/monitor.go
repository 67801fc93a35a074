package quality

import (
	"fmt"
	"time"
)

const (
	// frameWindow is the number of recent frame-time samples averaged.
	frameWindow = 60

	// Thresholds in milliseconds of mean frame time. Dropping reacts at
	// the generic bounds; raising demands the stricter confirm bound so
	// the level does not oscillate around a boundary.
	dropToLowMs     = 25.0
	dropToMediumMs  = 20.0
	raiseEligibleMs = 15.0
	raiseConfirmMs  = 12.0

	stressedMs = 20.0

	// defaultFPS is reported before any frame has been sampled.
	defaultFPS = 60.0
)

// AudioReinitializer is the audio output owner. The monitor asks it to
// rebuild sample-rate-dependent state after a level change; that rebuild
// is the owner's responsibility, not the monitor's.
type AudioReinitializer interface {
	ReinitializeAudio(Preset) error
}

// Monitor classifies system load into quality levels from frame timings.
// Levels change only through the frame-time state machine or an explicit
// SetLevel override, never silently.
//
// The monitor is single-threaded: feed it from the same loop that reads
// it.
type Monitor struct {
	level Level

	frames [frameWindow]float64 // ms
	count  int
	next   int

	onChange func(Level, Preset)
	audio    AudioReinitializer
}

// NewMonitor creates a monitor starting at High quality.
func NewMonitor() *Monitor {
	return &Monitor{level: High}
}

// SetChangeCallback registers a callback invoked after every level
// change, manual or automatic.
func (m *Monitor) SetChangeCallback(fn func(Level, Preset)) {
	m.onChange = fn
}

// SetAudioOwner registers the audio output owner to reinitialize on level
// changes.
func (m *Monitor) SetAudioOwner(a AudioReinitializer) {
	m.audio = a
}

// AddFrameTime records one frame duration and re-evaluates the level.
// Call it once per rendered frame.
func (m *Monitor) AddFrameTime(frame time.Duration) error {
	m.frames[m.next] = float64(frame) / float64(time.Millisecond)
	m.next = (m.next + 1) % frameWindow
	if m.count < frameWindow {
		m.count++
	}
	return m.evaluate()
}

// evaluate runs one step of the level state machine against the current
// mean frame time.
func (m *Monitor) evaluate() error {
	mean := m.AverageFrameTime()
	switch {
	case mean > dropToLowMs && m.level != Low:
		return m.transition(Low)
	case mean > dropToMediumMs && m.level == High:
		return m.transition(Medium)
	case mean < raiseEligibleMs && m.level != High:
		// Raise one step at a time, and only once the mean is well
		// under the eligibility bound.
		if mean < raiseConfirmMs {
			return m.transition(m.level + 1)
		}
	}
	return nil
}

// SetLevel forces a quality level, bypassing the frame-time logic. The
// override notifies the change callback and reinitializes the audio owner
// like any other transition.
func (m *Monitor) SetLevel(l Level) error {
	if !l.Valid() {
		return fmt.Errorf("quality: invalid level %d", int(l))
	}
	if l == m.level {
		return nil
	}
	return m.transition(l)
}

func (m *Monitor) transition(l Level) error {
	m.level = l
	preset := PresetFor(l)
	if m.onChange != nil {
		m.onChange(l, preset)
	}
	if m.audio != nil {
		if err := m.audio.ReinitializeAudio(preset); err != nil {
			return fmt.Errorf("quality: reinitialize audio for %s: %w", l, err)
		}
	}
	return nil
}

// Level returns the active quality level.
func (m *Monitor) Level() Level {
	return m.level
}

// Preset returns the active level's parameter bundle.
func (m *Monitor) Preset() Preset {
	return PresetFor(m.level)
}

// AverageFrameTime returns the mean of the sampled frame times in
// milliseconds, or 0 with no samples.
func (m *Monitor) AverageFrameTime() float64 {
	if m.count == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < m.count; i++ {
		sum += m.frames[i]
	}
	return sum / float64(m.count)
}

// FPS estimates frames per second from the mean frame time, defaulting to
// 60 before any sample arrives.
func (m *Monitor) FPS() float64 {
	mean := m.AverageFrameTime()
	if mean <= 0 {
		return defaultFPS
	}
	return 1000 / mean
}

// IsStressed reports whether the mean frame time exceeds the stress bound.
func (m *Monitor) IsStressed() bool {
	return m.AverageFrameTime() > stressedMs
}
