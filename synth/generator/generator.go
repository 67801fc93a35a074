// Package generator renders complete notes from a four-part synthesis
// recipe: a waveform method, a harmonic content model, an amplitude
// envelope and a timbre modulation. Rendering is deterministic, so
// finished notes are cached and replayed byte for byte.
//
// A Generator is single-threaded and not safe for concurrent use.
package generator

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-synth/engine/quality"
	"github.com/cwbudde/algo-synth/synth"
	"github.com/cwbudde/algo-synth/synth/envelope"
	"github.com/cwbudde/algo-synth/synth/harmonics"
	"github.com/cwbudde/algo-synth/synth/method"
	"github.com/cwbudde/algo-synth/synth/modulation"
)

const (
	// overtoneMix is the level of stacked partials relative to the base
	// waveform for methods that produce a full wave on their own.
	overtoneMix = 0.3

	// renderHeadroom scales every rendered note so that summing a few
	// simultaneous voices does not clip before the output chain.
	renderHeadroom = 0.8
)

// DefaultQualityLevel is the preset level a generator renders at until
// SetQualitySource attaches a live supplier.
const DefaultQualityLevel = quality.High

// QualitySource supplies the synthesis parameter preset in effect.
// *quality.Monitor implements it.
type QualitySource interface {
	Preset() quality.Preset
}

// Config names the four strategy components of a generator plus their
// construction parameters. The zero value of each params struct selects
// that component's defaults.
type Config struct {
	Method     string
	Harmonics  string
	Envelope   string
	Modulation string

	MethodParams     method.Params
	HarmonicsParams  harmonics.Params
	EnvelopeParams   envelope.Params
	ModulationParams modulation.Params
}

// Generator renders notes for one fixed synthesis recipe.
type Generator struct {
	cfg Config

	method  method.Method
	content harmonics.Content
	shape   envelope.Shape
	mod     modulation.Modulation

	quality     QualitySource
	cache       *bufferCache
	multipliers [numBeatRegions]float64
}

// New builds a generator from a config. All four component names must
// resolve; unknown names are an error. The generator renders at
// DefaultQualityLevel until SetQualitySource attaches a supplier.
func New(cfg Config) (*Generator, error) {
	m, err := method.New(cfg.Method, cfg.MethodParams)
	if err != nil {
		return nil, err
	}
	h, err := harmonics.New(cfg.Harmonics, cfg.HarmonicsParams)
	if err != nil {
		return nil, err
	}
	e, err := envelope.New(cfg.Envelope, cfg.EnvelopeParams)
	if err != nil {
		return nil, err
	}
	mod, err := modulation.New(cfg.Modulation, cfg.ModulationParams)
	if err != nil {
		return nil, err
	}
	return &Generator{
		cfg:         cfg,
		method:      m,
		content:     h,
		shape:       e,
		mod:         mod,
		cache:       newBufferCache(defaultCacheEntries),
		multipliers: defaultBeatMultipliers,
	}, nil
}

// Config returns the configuration the generator was built from.
func (g *Generator) Config() Config {
	return g.cfg
}

// SetQualitySource attaches the preset supplier consulted at the start
// of every render. Without one the generator renders at
// DefaultQualityLevel.
func (g *Generator) SetQualitySource(q QualitySource) {
	g.quality = q
}

// ClearCache drops all cached renders.
func (g *Generator) ClearCache() {
	g.cache.clear()
}

type renderSettings struct {
	bpm      float64
	region   float64
	duration float64
}

// RenderOption adjusts a single Generate call.
type RenderOption func(*renderSettings)

// WithTempo sets the tempo that note durations derive from. Without it
// notes fall back to a fixed half second.
func WithTempo(bpm float64) RenderOption {
	return func(s *renderSettings) { s.bpm = bpm }
}

// WithDurationRegion selects the beat multiplier region. Fractional
// values round, out-of-range values clamp.
func WithDurationRegion(region float64) RenderOption {
	return func(s *renderSettings) { s.region = region }
}

// WithDuration sets the note length in seconds directly, overriding the
// tempo and region derivation. Seconds must be positive.
func WithDuration(seconds float64) RenderOption {
	return func(s *renderSettings) { s.duration = seconds }
}

// Generate renders one complete note at the given frequency and volume.
// The returned slice is owned by the caller. Identical calls return
// identical samples whether or not the internal cache is warm.
func (g *Generator) Generate(ctx *synth.Context, freq, volume float64, opts ...RenderOption) ([]float64, error) {
	if ctx == nil {
		return nil, fmt.Errorf("generator: nil context")
	}
	if freq <= 0 {
		return nil, fmt.Errorf("generator: frequency must be > 0: %g", freq)
	}
	if volume < 0 || volume > 1 {
		return nil, fmt.Errorf("generator: volume must be in [0, 1]: %g", volume)
	}

	settings := renderSettings{region: defaultRegion}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.duration < 0 {
		return nil, fmt.Errorf("generator: duration must be > 0: %g", settings.duration)
	}

	preset := quality.PresetFor(DefaultQualityLevel)
	if g.quality != nil {
		preset = g.quality.Preset()
	}

	sampleRate := ctx.SampleRate()
	duration := settings.duration
	if duration == 0 {
		duration = musicalDuration(settings.bpm, settings.region, g.multipliers)
	}
	numSamples := int(math.Round(duration * sampleRate))
	if numSamples < 1 {
		numSamples = 1
	}

	key := g.cacheKey(freq, duration, sampleRate, preset)
	out, ok := g.cache.get(key)
	if !ok {
		var err error
		out, err = g.render(ctx, freq, duration, numSamples, preset)
		if err != nil {
			return nil, err
		}
		g.cache.put(key, out)
	}

	vecmath.ScaleBlockInPlace(out, volume*renderHeadroom)
	return out, nil
}

// cacheKey identifies one render. Frequency rounds to two decimals so
// near-identical pitches share an entry; the sample rate and the preset
// fields that change the produced samples are part of the key, so
// quality transitions never replay stale renders.
func (g *Generator) cacheKey(freq, duration, sampleRate float64, p quality.Preset) string {
	return fmt.Sprintf("%s/%s/%s/%s|f=%.2f|d=%.4f|r=%g|h=%d|s=%t",
		g.cfg.Method, g.cfg.Harmonics, g.cfg.Envelope, g.cfg.Modulation,
		freq, duration, sampleRate, p.MaxHarmonics, p.SimplifiedSynthesis)
}

func (g *Generator) render(ctx *synth.Context, freq, duration float64, numSamples int, preset quality.Preset) ([]float64, error) {
	sampleRate := ctx.SampleRate()

	partials := g.content.Partials(freq, numSamples, sampleRate)
	if preset.MaxHarmonics > 0 && len(partials) > preset.MaxHarmonics {
		partials = partials[:preset.MaxHarmonics]
	}

	// Modulation is skipped entirely both for the identity variant and
	// under simplified synthesis, where the per-sample queries are the
	// cost being shed.
	skipMod := preset.SimplifiedSynthesis || g.mod.Name() == modulation.NameNone

	out := make([]float64, numSamples)

	var renderRange func(start, end int)
	switch m := g.method.(type) {
	case method.Stateful:
		if err := m.BeginNote(freq, sampleRate); err != nil {
			return nil, err
		}
		renderRange = func(start, end int) {
			for i := start; i < end; i++ {
				t := float64(i) / sampleRate
				ratio := 1.0
				if !skipMod {
					ratio = g.mod.FrequencyRatio(t)
				}
				s := m.Step(ratio)
				if !skipMod {
					s *= g.mod.AmplitudeRatio(t)
				}
				out[i] = s
			}
		}
	default:
		additive := g.method.Name() == method.NameAdditive
		renderRange = func(start, end int) {
			for i := start; i < end; i++ {
				t := float64(i) / sampleRate
				fr := 1.0
				if !skipMod {
					fr = g.mod.FrequencyRatio(t)
				}

				var s float64
				if additive {
					for _, p := range partials {
						amp := p.Amplitude
						if !skipMod {
							amp *= g.mod.PartialAmplitude(p.Frequency, freq, t, duration)
						}
						s += amp * g.method.Generate(p.Frequency*fr, t)
					}
				} else {
					s = g.method.Generate(freq*fr, t)
					for _, p := range partials {
						if isFundamental(p, freq) {
							continue
						}
						amp := p.Amplitude
						if !skipMod {
							amp *= g.mod.PartialAmplitude(p.Frequency, freq, t, duration)
						}
						s += overtoneMix * amp * math.Sin(2*math.Pi*p.Frequency*fr*t)
					}
				}
				if !skipMod {
					s *= g.mod.AmplitudeRatio(t)
				}
				out[i] = s
			}
		}
	}

	// Chunking changes loop granularity only; the produced samples are
	// identical to a single pass.
	if preset.ChunkSize > 0 {
		for start := 0; start < numSamples; start += preset.ChunkSize {
			end := start + preset.ChunkSize
			if end > numSamples {
				end = numSamples
			}
			renderRange(start, end)
		}
	} else {
		renderRange(0, numSamples)
	}

	env := ctx.AcquireBuffer(numSamples)
	defer ctx.ReleaseBuffer(env)
	envSamples := env.Samples()
	for i := range envSamples {
		envSamples[i] = g.shape.Amplitude(float64(i) / sampleRate)
	}
	vecmath.MulBlockInPlace(out, envSamples)

	return out, nil
}

func isFundamental(p synth.Harmonic, fundamental float64) bool {
	return math.Abs(p.Ratio(fundamental)-1) < 1e-9
}
