package method

import (
	"math"
	"testing"
)

func renderPluck(t *testing.T, p *Physical, freq, sampleRate float64, n int) []float64 {
	t.Helper()
	if err := p.BeginNote(freq, sampleRate); err != nil {
		t.Fatalf("BeginNote(%g): %v", freq, err)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = p.Step(1)
	}
	return out
}

func TestPhysical_DeterministicReseed(t *testing.T) {
	p, err := NewPhysical(Params{})
	if err != nil {
		t.Fatal(err)
	}

	first := renderPluck(t, p, 220, 44100, 2048)
	second := renderPluck(t, p, 220, 44100, 2048)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after reseed: %g != %g", i, first[i], second[i])
		}
	}
}

func TestPhysical_EnergyDecays(t *testing.T) {
	p, err := NewPhysical(Params{Decay: 0.98})
	if err != nil {
		t.Fatal(err)
	}
	out := renderPluck(t, p, 220, 44100, 44100/2)

	head := blockRMS(out[:4096])
	tail := blockRMS(out[len(out)-4096:])
	if tail >= head {
		t.Errorf("string energy did not decay: head %g, tail %g", head, tail)
	}
	if head == 0 {
		t.Error("excitation produced silence")
	}
}

func TestPhysical_VibratoRatioStaysBounded(t *testing.T) {
	p, err := NewPhysical(Params{})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.BeginNote(330, 44100); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8192; i++ {
		ratio := 1 + 0.01*math.Sin(2*math.Pi*5*float64(i)/44100)
		s := p.Step(ratio)
		if math.IsNaN(s) || math.Abs(s) > 4 {
			t.Fatalf("sample %d unstable under vibrato: %g", i, s)
		}
	}
}

func TestPhysical_StepBeforeBeginNote(t *testing.T) {
	p, err := NewPhysical(Params{})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Step(1); got != 0 {
		t.Errorf("Step before BeginNote = %g, want 0", got)
	}
}

func TestPhysical_InvalidBeginNote(t *testing.T) {
	p, err := NewPhysical(Params{})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.BeginNote(0, 44100); err == nil {
		t.Error("expected error for zero frequency")
	}
	if err := p.BeginNote(440, 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if err := p.BeginNote(20000, 44100); err == nil {
		t.Error("expected error for period shorter than the line minimum")
	}
}

func TestPhysical_StringTableBounded(t *testing.T) {
	p, err := NewPhysical(Params{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < maxStrings*3; i++ {
		freq := 110 + float64(i)
		if err := p.BeginNote(freq, 44100); err != nil {
			t.Fatalf("BeginNote(%g): %v", freq, err)
		}
	}
	if got := p.strings.len(); got > maxStrings {
		t.Errorf("string table grew to %d entries, cap is %d", got, maxStrings)
	}
}

func TestPhysical_InvalidParams(t *testing.T) {
	if _, err := NewPhysical(Params{Decay: 1.5}); err == nil {
		t.Error("expected error for decay > 1")
	}
	if _, err := NewPhysical(Params{Damping: 1}); err == nil {
		t.Error("expected error for damping >= 1")
	}
}

func blockRMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}
