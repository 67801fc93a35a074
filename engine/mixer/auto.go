package mixer

import "fmt"

// AutoMode selects how playback advances between sounds without user
// input.
type AutoMode int

// Auto-advance modes. The selection policy for AutoRandom lives outside
// the mixer; register one with SetSoundSelector.
const (
	// AutoNone disables auto-advance.
	AutoNone AutoMode = iota

	// AutoCrossfade fades to the next slot in order.
	AutoCrossfade

	// AutoJump switches to the next slot in order instantly.
	AutoJump

	// AutoRandom fades to the slot picked by the registered selector.
	AutoRandom
)

// String returns the mode name.
func (a AutoMode) String() string {
	switch a {
	case AutoNone:
		return "none"
	case AutoCrossfade:
		return "crossfade"
	case AutoJump:
		return "jump"
	case AutoRandom:
		return "random"
	default:
		return fmt.Sprintf("mixer.AutoMode(%d)", int(a))
	}
}

// Valid reports whether a is a defined mode.
func (a AutoMode) Valid() bool {
	return a >= AutoNone && a <= AutoRandom
}

// SetAutoMode selects the auto-advance mode.
func (m *Manager) SetAutoMode(mode AutoMode) error {
	if !mode.Valid() {
		return fmt.Errorf("mixer: unknown auto mode %d", int(mode))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
	return nil
}

// Mode returns the auto-advance mode in effect.
func (m *Manager) Mode() AutoMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// SetSoundSelector registers the callback that picks the next sound in
// AutoRandom mode. A nil selector restores in-order rotation.
func (m *Manager) SetSoundSelector(fn func(active, numSounds int) int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fn == nil {
		fn = rotateSelector
	}
	m.selectNext = fn
}

// Advance performs one auto-advance step at the given tempo. A no-op
// in AutoNone mode or when the pick equals the active sound; a pick
// outside the slot range is an error.
func (m *Manager) Advance(bpm float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var next int
	switch m.mode {
	case AutoNone:
		return nil
	case AutoCrossfade, AutoJump:
		next = rotateSelector(m.active, len(m.slots))
	case AutoRandom:
		next = m.selectNext(m.active, len(m.slots))
	default:
		return fmt.Errorf("mixer: unknown auto mode %d", int(m.mode))
	}
	if err := m.checkSlot(next); err != nil {
		return fmt.Errorf("mixer: sound selector picked an invalid slot: %w", err)
	}
	if next == m.active {
		return nil
	}

	if m.mode == AutoJump {
		return m.setActiveSoundLocked(next)
	}
	return m.startCrossfadeLocked(next, bpm, DefaultCrossfadeBars, nil)
}
