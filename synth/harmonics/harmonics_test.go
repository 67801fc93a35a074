package harmonics

import (
	"testing"

	"github.com/cwbudde/algo-synth/synth"
)

const testSampleRate = 44100.0

func allModels(t *testing.T) []Content {
	t.Helper()
	names := []string{NameSeries, NameBell, NameOrgan, NameDetuned, NameSingle, NameTine, NameBrass}
	models := make([]Content, 0, len(names))
	for _, name := range names {
		m, err := New(name, Params{})
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		models = append(models, m)
	}
	return models
}

func TestNew_UnknownName(t *testing.T) {
	if _, err := New("noise", Params{}); err == nil {
		t.Fatal("expected error for unknown model name")
	}
}

func TestPartials_NyquistSafety(t *testing.T) {
	limit := synth.NyquistLimit(testSampleRate)
	for _, m := range allModels(t) {
		for _, freq := range []float64{55, 440, 2000, 10000} {
			for _, p := range m.Partials(freq, 44100, testSampleRate) {
				if p.Frequency >= limit {
					t.Errorf("%s: partial %g Hz at fundamental %g breaches limit %g",
						m.Name(), p.Frequency, freq, limit)
				}
			}
		}
	}
}

func TestSeries_NyquistSafetyHighFundamental(t *testing.T) {
	s, err := NewSeries(Params{})
	if err != nil {
		t.Fatal(err)
	}
	limit := testSampleRate / 2.5
	for _, p := range s.Partials(10000, 44100, testSampleRate) {
		if p.Frequency >= limit {
			t.Errorf("partial %g Hz >= %g", p.Frequency, limit)
		}
	}
}

func TestPartials_FundamentalFirst(t *testing.T) {
	for _, m := range allModels(t) {
		partials := m.Partials(220, 44100, testSampleRate)
		if len(partials) == 0 {
			t.Errorf("%s: no partials at 220 Hz", m.Name())
			continue
		}
		first := partials[0]
		ratio := first.Ratio(220)
		if ratio < 0.999 || ratio > 1.01 {
			t.Errorf("%s: first partial ratio %g, want the fundamental", m.Name(), ratio)
		}
		for _, p := range partials {
			if p.Amplitude > first.Amplitude {
				t.Errorf("%s: partial at %g Hz louder than the fundamental", m.Name(), p.Frequency)
			}
		}
	}
}

func TestSeries_Inharmonicity(t *testing.T) {
	s, err := NewSeries(Params{Inharmonicity: 0.001})
	if err != nil {
		t.Fatal(err)
	}
	partials := s.Partials(220, 44100, testSampleRate)
	if len(partials) < 8 {
		t.Fatalf("expected a full series, got %d partials", len(partials))
	}
	// Upper partials run progressively sharp of the exact series.
	for n := 2; n < len(partials); n++ {
		exact := 220 * float64(n+1)
		if partials[n].Frequency <= exact {
			t.Errorf("partial %d at %g Hz not stretched above %g", n+1, partials[n].Frequency, exact)
		}
	}
}

func TestSeries_AmplitudeRolloff(t *testing.T) {
	s, err := NewSeries(Params{})
	if err != nil {
		t.Fatal(err)
	}
	partials := s.Partials(110, 44100, testSampleRate)
	for i := 1; i < len(partials); i++ {
		if partials[i].Amplitude >= partials[i-1].Amplitude {
			t.Errorf("amplitude not strictly decreasing at partial %d", i+1)
		}
	}
}

func TestBrass_OddEmphasis(t *testing.T) {
	b, err := NewBrass(Params{})
	if err != nil {
		t.Fatal(err)
	}
	partials := b.Partials(110, 44100, testSampleRate)
	if len(partials) < 5 {
		t.Fatalf("expected at least 5 partials, got %d", len(partials))
	}
	// Every odd harmonic outweighs its even neighbor despite the 1/n
	// rolloff, while the fundamental stays the strongest partial.
	for i := 2; i < len(partials); i += 2 {
		if partials[i].Amplitude <= partials[i-1].Amplitude {
			t.Errorf("harmonic %d amp %g not emphasized over harmonic %d amp %g",
				i+1, partials[i].Amplitude, i, partials[i-1].Amplitude)
		}
	}
	for i := 1; i < len(partials); i++ {
		if partials[i].Amplitude >= partials[0].Amplitude {
			t.Errorf("harmonic %d amp %g exceeds fundamental %g",
				i+1, partials[i].Amplitude, partials[0].Amplitude)
		}
	}
}

func TestDetuned_ClusterSpread(t *testing.T) {
	d, err := NewDetuned(Params{DetuneCents: 20, Voices: 5})
	if err != nil {
		t.Fatal(err)
	}
	partials := d.Partials(440, 44100, testSampleRate)
	if len(partials) != 5 {
		t.Fatalf("expected 5 cluster voices, got %d", len(partials))
	}
	var below, above int
	for _, p := range partials[1:] {
		if p.Frequency < 440 {
			below++
		}
		if p.Frequency > 440 {
			above++
		}
	}
	if below == 0 || above == 0 {
		t.Errorf("cluster not spread around the fundamental: %d below, %d above", below, above)
	}
}

func TestSingle_OnePartial(t *testing.T) {
	s := NewSingle()
	partials := s.Partials(440, 44100, testSampleRate)
	if len(partials) != 1 || partials[0].Frequency != 440 {
		t.Errorf("Partials(440) = %+v, want exactly the fundamental", partials)
	}
	// Above the safety limit even the fundamental is dropped.
	if got := s.Partials(20000, 44100, testSampleRate); len(got) != 0 {
		t.Errorf("expected no partials above the limit, got %+v", got)
	}
}

func TestParams_Validation(t *testing.T) {
	cases := []struct {
		name string
		p    Params
	}{
		{NameSeries, Params{Inharmonicity: -1}},
		{NameSeries, Params{MaxPartials: 1000}},
		{NameBrass, Params{MaxPartials: -1}},
		{NameDetuned, Params{DetuneCents: 500}},
		{NameDetuned, Params{Voices: 100}},
	}
	for _, tc := range cases {
		if _, err := New(tc.name, tc.p); err == nil {
			t.Errorf("New(%q, %+v): expected error", tc.name, tc.p)
		}
	}
}
