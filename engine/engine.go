// Package engine assembles a playback session from the synthesis core:
// a shared audio context, the CPU-adaptive quality monitor, the timbre
// mixer and the mastering chain, plus the voice scheduling that feeds
// rendered notes through them.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/algo-dsp/dsp/core"

	"github.com/cwbudde/algo-synth/engine/mixer"
	"github.com/cwbudde/algo-synth/engine/output"
	"github.com/cwbudde/algo-synth/engine/quality"
	"github.com/cwbudde/algo-synth/synth"
	"github.com/cwbudde/algo-synth/synth/generator"
)

const (
	defaultTempoBPM = 120

	// bodyLayerLevel is the mix level of each timbre's supporting layer
	// relative to its primary layer.
	bodyLayerLevel = 0.35
)

// Session is one complete playback setup. The audio render callback
// drives RenderBlock; everything else is control surface. A mutex
// covers the boundary between the two, plus the autogain timer
// goroutine.
type Session struct {
	mu sync.Mutex

	// monMu serializes monitor access between the frame-time feed and
	// the autogain timer; it is never held together with mu by the same
	// caller except through ReinitializeAudio, which takes mu alone.
	monMu sync.Mutex

	ctx     *synth.Context
	monitor *quality.Monitor
	chain   *output.Chain
	sounds  *mixer.Manager
	pool    *output.NodePool

	voices    []*output.Voice
	slotGains []float64
	tempo     float64

	stopTick chan struct{}
}

// NewSession builds a session with the given timbre set; nil selects
// the builtin timbres. The session starts at the high quality preset
// and adapts from there as frame times arrive.
func NewSession(timbres []mixer.Timbre) (*Session, error) {
	if timbres == nil {
		timbres = mixer.BuiltinTimbres()
	}

	monitor := quality.NewMonitor()
	preset := monitor.Preset()

	ctx, err := synth.NewContext(
		core.WithSampleRate(float64(preset.SampleRate)),
		core.WithBlockSize(preset.BufferSize),
	)
	if err != nil {
		return nil, err
	}
	chain, err := output.NewChain(float64(preset.SampleRate))
	if err != nil {
		return nil, err
	}
	sounds, err := mixer.NewManager(timbres)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ctx:       ctx,
		monitor:   monitor,
		chain:     chain,
		sounds:    sounds,
		pool:      output.NewNodePool(),
		slotGains: make([]float64, sounds.NumSounds()),
		tempo:     defaultTempoBPM,
	}
	monitor.SetAudioOwner(s)
	sounds.SetQualitySource(s)
	return s, nil
}

// Preset returns the active quality preset. It implements
// generator.QualitySource for the slot generators, serializing access
// against the frame-time feed.
func (s *Session) Preset() quality.Preset {
	s.monMu.Lock()
	defer s.monMu.Unlock()
	return s.monitor.Preset()
}

// Monitor returns the quality monitor. Feed it frame times via
// AddFrameTime on the session.
func (s *Session) Monitor() *quality.Monitor { return s.monitor }

// Chain returns the mastering chain.
func (s *Session) Chain() *output.Chain { return s.chain }

// Sounds returns the timbre mixer.
func (s *Session) Sounds() *mixer.Manager { return s.sounds }

// Context returns the session audio context.
func (s *Session) Context() *synth.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// SampleRate returns the session sample rate in Hz.
func (s *Session) SampleRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx.SampleRate()
}

// SetTempo sets the tempo that note and crossfade durations derive
// from.
func (s *Session) SetTempo(bpm float64) error {
	if bpm <= 0 {
		return fmt.Errorf("engine: tempo must be > 0: %g", bpm)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tempo = bpm
	return nil
}

// Tempo returns the session tempo in beats per minute.
func (s *Session) Tempo() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempo
}

// AddFrameTime feeds one frame duration to the quality monitor. Quality
// transitions, including audio reinitialization, happen synchronously
// inside this call.
func (s *Session) AddFrameTime(frame time.Duration) error {
	s.monMu.Lock()
	defer s.monMu.Unlock()
	return s.monitor.AddFrameTime(frame)
}

// NoteOn renders one note and schedules it for playback on every
// audible slot. region selects the note length from the beat multiplier
// table at the session tempo.
func (s *Session) NoteOn(freq, volume, region float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("engine: volume must be in [0, 1]: %g", volume)
	}

	s.mu.Lock()
	ctx := s.ctx
	tempo := s.tempo
	s.mu.Unlock()

	for _, slot := range s.sounds.AudibleSlots() {
		for layer := 0; layer < mixer.NumLayers; layer++ {
			gen, err := s.sounds.Generator(slot, layer)
			if err != nil {
				return err
			}
			// Notes render at full volume so the cache is shared across
			// velocities; the per-voice gain applies the velocity.
			samples, err := gen.Generate(ctx, freq, 1,
				generator.WithTempo(tempo), generator.WithDurationRegion(region))
			if err != nil {
				return err
			}
			gain := volume
			if layer > 0 {
				gain *= bodyLayerLevel
			}
			v := s.pool.Get(samples, gain, slot)

			s.mu.Lock()
			s.voices = append(s.voices, v)
			s.mu.Unlock()
		}
	}
	return nil
}

// ActiveVoices returns the number of voices still playing.
func (s *Session) ActiveVoices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// RenderBlock fills block with the summed live voices and runs the
// mastering chain over it in place. Finished voices return to the pool.
func (s *Session) RenderBlock(block []float64) error {
	for i := range s.slotGains {
		g, err := s.sounds.SlotGain(i)
		if err != nil {
			return err
		}
		s.slotGains[i] = g
	}

	s.mu.Lock()
	for i := range block {
		block[i] = 0
	}
	live := s.voices[:0]
	for _, v := range s.voices {
		g := v.Gain() * s.slotGains[v.Slot()]
		for i := range block {
			block[i] += v.Next() * g
		}
		if v.Done() {
			s.pool.Put(v)
		} else {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(s.voices); i++ {
		s.voices[i] = nil
	}
	s.voices = live
	err := s.chain.Process(block)
	s.mu.Unlock()
	return err
}

// Start marks the output live and starts the periodic autogain cycle.
// The cycle period follows the active quality preset.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopTick != nil {
		return
	}
	s.chain.SetRunning(true)
	stop := make(chan struct{})
	s.stopTick = stop
	go s.autogainLoop(stop)
}

// Stop halts playback: the autogain cycle stops, any in-flight
// crossfade is cancelled and snapped, and pending voices are dropped.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
	s.chain.SetRunning(false)
	for i, v := range s.voices {
		s.pool.Put(v)
		s.voices[i] = nil
	}
	s.voices = s.voices[:0]
	s.mu.Unlock()

	s.sounds.Stop()
}

func (s *Session) autogainLoop(stop chan struct{}) {
	timer := time.NewTimer(s.autogainInterval())
	defer timer.Stop()
	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			s.mu.Lock()
			s.chain.AutogainTick()
			s.mu.Unlock()
			// Re-read the interval; quality may have shifted.
			timer.Reset(s.autogainInterval())
		}
	}
}

func (s *Session) autogainInterval() time.Duration {
	s.monMu.Lock()
	defer s.monMu.Unlock()
	return s.monitor.Preset().AutogainInterval
}

// ReinitializeAudio rebuilds the sample-rate-dependent session state
// for a quality preset. The quality monitor calls it on every tier
// transition; voices rendered at the old sample rate are dropped.
func (s *Session) ReinitializeAudio(p quality.Preset) error {
	ctx, err := synth.NewContext(
		core.WithSampleRate(float64(p.SampleRate)),
		core.WithBlockSize(p.BufferSize),
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.chain.ReinitializeAudio(p); err != nil {
		return err
	}
	s.ctx = ctx
	for i, v := range s.voices {
		s.pool.Put(v)
		s.voices[i] = nil
	}
	s.voices = s.voices[:0]
	return nil
}
