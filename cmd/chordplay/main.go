// Command chordplay plays a chord progression through the synthesis
// engine and the system audio output.
//
// Usage:
//
//	chordplay -chords "C G Am F" -timbre epiano -tempo 90 -loops 4
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-synth/engine"
	"github.com/cwbudde/algo-synth/engine/mixer"
	"github.com/cwbudde/algo-synth/engine/quality"
)

const noteVolume = 0.75

func main() {
	log.SetFlags(0)
	log.SetPrefix("chordplay: ")

	var (
		chords    = flag.String("chords", "C G Am F", "whitespace-separated chord progression")
		timbre    = flag.String("timbre", mixer.TimbrePiano, "starting timbre")
		crossfade = flag.String("crossfade", "", "timbre to crossfade to halfway through")
		tempo     = flag.Float64("tempo", 100, "tempo in beats per minute")
		region    = flag.Float64("region", 1, "note length region, 0 (whole) through 6 (shortest)")
		loops     = flag.Int("loops", 2, "times to repeat the progression")
		tier      = flag.String("quality", "", "pin the quality tier: low, medium or high")
		reverb    = flag.Float64("reverb", 0.25, "reverb send level in [0, 1]")
		autogain  = flag.Bool("autogain", true, "enable closed-loop output gain control")
	)
	flag.Parse()

	if err := run(*chords, *timbre, *crossfade, *tempo, *region, *loops, *tier, *reverb, *autogain); err != nil {
		log.Fatal(err)
	}
}

func run(chords, timbre, crossfade string, tempo, region float64, loops int, tier string, reverb float64, autogain bool) error {
	progression, err := parseProgression(chords)
	if err != nil {
		return err
	}

	session, err := engine.NewSession(nil)
	if err != nil {
		return err
	}
	if tier != "" {
		level, err := parseLevel(tier)
		if err != nil {
			return err
		}
		if err := session.Monitor().SetLevel(level); err != nil {
			return err
		}
	}
	if err := session.SetTempo(tempo); err != nil {
		return err
	}
	if err := session.Chain().SetReverbSend(reverb); err != nil {
		return err
	}
	session.Chain().Autogain().SetEnabled(autogain)

	start, err := timbreSlot(timbre)
	if err != nil {
		return err
	}
	if err := session.Sounds().SetActiveSound(start); err != nil {
		return err
	}

	sampleRate := int(session.SampleRate())
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	<-ready

	player := otoCtx.NewPlayer(&streamer{session: session})
	session.Start()
	player.Play()
	defer func() {
		session.Stop()
		player.Close()
	}()

	log.Printf("playing %q on %s at %g bpm, %d Hz", chords, timbre, tempo, sampleRate)

	barDuration := time.Duration(240 / tempo * float64(time.Second))
	totalBars := loops * len(progression)
	bar := 0
	for loop := 0; loop < loops; loop++ {
		for _, freqs := range progression {
			if crossfade != "" && bar == totalBars/2 {
				target, err := timbreSlot(crossfade)
				if err != nil {
					return err
				}
				err = session.Sounds().StartCrossfade(target, tempo, mixer.DefaultCrossfadeBars, func() {
					log.Printf("crossfade to %s done", crossfade)
				})
				if err != nil {
					return err
				}
			}
			for _, freq := range freqs {
				if err := session.NoteOn(freq, noteVolume, region); err != nil {
					return err
				}
			}
			time.Sleep(barDuration)
			bar++
		}
	}

	// Let the last chord and the reverb tail ring out.
	time.Sleep(2 * time.Second)
	return nil
}

func parseLevel(s string) (quality.Level, error) {
	for _, l := range []quality.Level{quality.Low, quality.Medium, quality.High} {
		if s == l.String() {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown quality tier %q", s)
}

func timbreSlot(name string) (int, error) {
	for i, tb := range mixer.BuiltinTimbres() {
		if tb.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown timbre %q", name)
}

// streamer adapts the session render loop to the byte stream the audio
// device consumes: mono float32 little-endian samples. Render time per
// block feeds the quality monitor.
type streamer struct {
	session *engine.Session
	buf     []float64
}

func (s *streamer) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n == 0 {
		return 0, nil
	}
	if cap(s.buf) < n {
		s.buf = make([]float64, n)
	}
	block := s.buf[:n]

	start := time.Now()
	if err := s.session.RenderBlock(block); err != nil {
		return 0, err
	}
	if err := s.session.AddFrameTime(time.Since(start)); err != nil {
		return 0, err
	}

	for i, v := range block {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(float32(v)))
	}
	return n * 4, nil
}
