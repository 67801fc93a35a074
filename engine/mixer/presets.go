package mixer

import (
	"fmt"

	"github.com/cwbudde/algo-synth/synth/envelope"
	"github.com/cwbudde/algo-synth/synth/generator"
	"github.com/cwbudde/algo-synth/synth/harmonics"
	"github.com/cwbudde/algo-synth/synth/method"
	"github.com/cwbudde/algo-synth/synth/modulation"
)

// Builtin timbre names, in playlist order.
const (
	TimbrePiano  = "piano"
	TimbreEPiano = "epiano"
	TimbreOrgan  = "organ"
	TimbreBell   = "bell"
	TimbreBrass  = "brass"
	TimbreSynth  = "synth"
	TimbrePluck  = "pluck"
)

// BuiltinTimbres returns the stock timbre set, one entry per builtin
// name. Layer 0 carries the character of the sound; layer 1 is a darker
// body layer mixed underneath it.
func BuiltinTimbres() []Timbre {
	names := []string{
		TimbrePiano, TimbreEPiano, TimbreOrgan, TimbreBell,
		TimbreBrass, TimbreSynth, TimbrePluck,
	}
	timbres := make([]Timbre, len(names))
	for i, name := range names {
		tb, err := BuiltinTimbre(name)
		if err != nil {
			// The table above only lists builtin names.
			panic(err)
		}
		timbres[i] = tb
	}
	return timbres
}

// BuiltinTimbre returns one stock timbre by name.
func BuiltinTimbre(name string) (Timbre, error) {
	body := generator.Config{
		Method:     method.NameWaveform,
		Harmonics:  harmonics.NameSingle,
		Envelope:   envelope.NamePad,
		Modulation: modulation.NameNone,
		MethodParams: method.Params{
			Shape: "sine",
		},
	}

	switch name {
	case TimbrePiano:
		return Timbre{
			Name: name,
			Layers: [NumLayers]generator.Config{
				{
					Method:     method.NameAdditive,
					Harmonics:  harmonics.NameSeries,
					Envelope:   envelope.NamePercussive,
					Modulation: modulation.NameHarmonicDecay,
					HarmonicsParams: harmonics.Params{
						Inharmonicity: 0.0002,
					},
				},
				body,
			},
		}, nil
	case TimbreEPiano:
		return Timbre{
			Name: name,
			Layers: [NumLayers]generator.Config{
				{
					Method:     method.NameFM,
					Harmonics:  harmonics.NameTine,
					Envelope:   envelope.NamePluck,
					Modulation: modulation.NameNone,
					MethodParams: method.Params{
						ModIndex: 1.2,
						ModRatio: 3.0,
					},
				},
				body,
			},
		}, nil
	case TimbreOrgan:
		return Timbre{
			Name: name,
			Layers: [NumLayers]generator.Config{
				{
					Method:     method.NameAdditive,
					Harmonics:  harmonics.NameOrgan,
					Envelope:   envelope.NameSustained,
					Modulation: modulation.NameVibrato,
				},
				body,
			},
		}, nil
	case TimbreBell:
		return Timbre{
			Name: name,
			Layers: [NumLayers]generator.Config{
				{
					Method:     method.NameAdditive,
					Harmonics:  harmonics.NameBell,
					Envelope:   envelope.NamePercussive,
					Modulation: modulation.NameRolloff,
					EnvelopeParams: envelope.Params{
						DecayRate: 1.2,
					},
				},
				body,
			},
		}, nil
	case TimbreBrass:
		return Timbre{
			Name: name,
			Layers: [NumLayers]generator.Config{
				{
					Method:     method.NameSubtractive,
					Harmonics:  harmonics.NameBrass,
					Envelope:   envelope.NameSynth,
					Modulation: modulation.NameFormant,
					MethodParams: method.Params{
						CutoffHz: 3500,
					},
				},
				body,
			},
		}, nil
	case TimbreSynth:
		return Timbre{
			Name: name,
			Layers: [NumLayers]generator.Config{
				{
					Method:     method.NameWaveform,
					Harmonics:  harmonics.NameDetuned,
					Envelope:   envelope.NameSynth,
					Modulation: modulation.NameNone,
					MethodParams: method.Params{
						Shape: "sawtooth",
					},
					HarmonicsParams: harmonics.Params{
						DetuneCents: 9,
						Voices:      5,
					},
				},
				body,
			},
		}, nil
	case TimbrePluck:
		return Timbre{
			Name: name,
			Layers: [NumLayers]generator.Config{
				{
					Method:     method.NamePhysical,
					Harmonics:  harmonics.NameSingle,
					Envelope:   envelope.NamePluck,
					Modulation: modulation.NameVibrato,
					EnvelopeParams: envelope.Params{
						DecayRate: 2.0,
					},
				},
				body,
			},
		}, nil
	default:
		return Timbre{}, fmt.Errorf("mixer: unknown builtin timbre %q", name)
	}
}
