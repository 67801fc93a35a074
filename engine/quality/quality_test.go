package quality

import (
	"errors"
	"testing"
	"time"
)

func feedFrames(t *testing.T, m *Monitor, ms float64, n int) {
	t.Helper()
	d := time.Duration(ms * float64(time.Millisecond))
	for i := 0; i < n; i++ {
		if err := m.AddFrameTime(d); err != nil {
			t.Fatalf("AddFrameTime: %v", err)
		}
	}
}

func TestMonitor_StartsHigh(t *testing.T) {
	m := NewMonitor()
	if m.Level() != High {
		t.Errorf("initial level = %s, want high", m.Level())
	}
	if m.FPS() != 60 {
		t.Errorf("FPS with no samples = %g, want 60", m.FPS())
	}
	if m.IsStressed() {
		t.Error("stressed with no samples")
	}
}

func TestMonitor_HeavyLoadSettlesLow(t *testing.T) {
	m := NewMonitor()
	feedFrames(t, m, 30, 120)
	if m.Level() != Low {
		t.Errorf("level after sustained 30ms frames = %s, want low", m.Level())
	}
	if !m.IsStressed() {
		t.Error("expected stressed at 30ms mean")
	}
}

func TestMonitor_ModerateLoadDropsHighToMedium(t *testing.T) {
	m := NewMonitor()
	feedFrames(t, m, 22, 120)
	if m.Level() != Medium {
		t.Errorf("level after sustained 22ms frames = %s, want medium", m.Level())
	}
	// Medium does not fall further at 22ms.
	feedFrames(t, m, 22, 120)
	if m.Level() != Medium {
		t.Errorf("level drifted to %s at 22ms", m.Level())
	}
}

func TestMonitor_RecoveryEscalatesOneStepAtATime(t *testing.T) {
	m := NewMonitor()
	feedFrames(t, m, 30, 120)
	if m.Level() != Low {
		t.Fatalf("setup: level = %s, want low", m.Level())
	}

	var transitions []Level
	m.SetChangeCallback(func(l Level, _ Preset) {
		transitions = append(transitions, l)
	})

	feedFrames(t, m, 10, 240)
	if m.Level() != High {
		t.Fatalf("level after sustained 10ms frames = %s, want high", m.Level())
	}
	for i, l := range transitions {
		if i > 0 && l != transitions[i-1]+1 {
			t.Fatalf("jumped from %s to %s without the intermediate step", transitions[i-1], l)
		}
	}
	if len(transitions) != 2 {
		t.Errorf("expected exactly low->medium->high, saw %v", transitions)
	}
}

func TestMonitor_HysteresisHoldsBetween12And15(t *testing.T) {
	m := NewMonitor()
	feedFrames(t, m, 30, 120)

	// 13ms is under the eligibility bound but not under the confirm
	// bound: the level must hold.
	feedFrames(t, m, 13, 240)
	if m.Level() != Low {
		t.Errorf("level escalated at 13ms mean: %s", m.Level())
	}
}

func TestMonitor_SetLevelOverride(t *testing.T) {
	m := NewMonitor()
	var notified Level = -1
	m.SetChangeCallback(func(l Level, _ Preset) { notified = l })

	if err := m.SetLevel(Low); err != nil {
		t.Fatal(err)
	}
	if m.Level() != Low || notified != Low {
		t.Errorf("override: level=%s notified=%s, want low", m.Level(), notified)
	}
	if err := m.SetLevel(Level(7)); err == nil {
		t.Error("expected error for invalid level")
	}
}

type reinitRecorder struct {
	presets []Preset
	err     error
}

func (r *reinitRecorder) ReinitializeAudio(p Preset) error {
	r.presets = append(r.presets, p)
	return r.err
}

func TestMonitor_ReinitializesAudioOwner(t *testing.T) {
	m := NewMonitor()
	rec := &reinitRecorder{}
	m.SetAudioOwner(rec)

	if err := m.SetLevel(Low); err != nil {
		t.Fatal(err)
	}
	if len(rec.presets) != 1 || rec.presets[0].SampleRate != PresetFor(Low).SampleRate {
		t.Errorf("audio owner not reinitialized with the low preset: %+v", rec.presets)
	}

	rec.err = errors.New("device busy")
	if err := m.SetLevel(High); err == nil {
		t.Error("expected reinitialization error to propagate")
	}
}

func TestMonitor_AverageAndFPS(t *testing.T) {
	m := NewMonitor()
	feedFrames(t, m, 20, frameWindow)
	if got := m.AverageFrameTime(); got < 19.9 || got > 20.1 {
		t.Errorf("AverageFrameTime = %g, want ~20", got)
	}
	if got := m.FPS(); got < 49 || got > 51 {
		t.Errorf("FPS = %g, want ~50", got)
	}
}

func TestPresetFor_Monotonic(t *testing.T) {
	low, med, high := PresetFor(Low), PresetFor(Medium), PresetFor(High)
	if !(low.MaxHarmonics < med.MaxHarmonics && med.MaxHarmonics < high.MaxHarmonics) {
		t.Error("harmonic caps not increasing with level")
	}
	if !(low.AutogainInterval > med.AutogainInterval && med.AutogainInterval > high.AutogainInterval) {
		t.Error("autogain intervals not decreasing with level")
	}
	if !low.SimplifiedSynthesis || high.SimplifiedSynthesis {
		t.Error("simplified synthesis flags wrong way around")
	}
	if high.ChunkSize != 0 {
		t.Error("high preset should render in a single pass")
	}
}
