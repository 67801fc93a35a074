package generator

import (
	"fmt"
	"math"
)

// numBeatRegions is the number of duration regions. Regions map a
// coarse position control to a musical note length; lower regions mean
// longer notes.
const numBeatRegions = 7

// defaultBeatMultipliers is the note length in beats per duration
// region: whole, half, quarter, quarter triplet, eighth triplet,
// sixteenth, sixteenth triplet.
var defaultBeatMultipliers = [numBeatRegions]float64{
	4, 2, 1, 2.0 / 3.0, 1.0 / 3.0, 0.25, 1.0 / 6.0,
}

const (
	// defaultRegion is the region used when the caller does not pick one.
	defaultRegion = 3

	// fallbackDurationSeconds is the note length when no usable tempo is
	// known.
	fallbackDurationSeconds = 0.5
)

// MusicalDuration returns the note length in seconds for a tempo and a
// duration region, using the default beat multiplier table. Fractional
// regions round to nearest and out-of-range regions clamp to the table
// bounds. A non-positive tempo yields a fixed half-second fallback.
func MusicalDuration(bpm, region float64) float64 {
	return musicalDuration(bpm, region, defaultBeatMultipliers)
}

func musicalDuration(bpm, region float64, multipliers [numBeatRegions]float64) float64 {
	if bpm <= 0 {
		return fallbackDurationSeconds
	}
	return 60 / bpm * multipliers[clampRegion(region)]
}

func clampRegion(region float64) int {
	idx := int(math.Round(region))
	if idx < 0 {
		return 0
	}
	if idx > numBeatRegions-1 {
		return numBeatRegions - 1
	}
	return idx
}

// SetBeatMultipliers replaces the generator's beat multiplier table.
// Every entry must be > 0.
func (g *Generator) SetBeatMultipliers(multipliers [numBeatRegions]float64) error {
	for i, m := range multipliers {
		if m <= 0 {
			return fmt.Errorf("generator: beat multiplier %d must be > 0: %g", i, m)
		}
	}
	g.multipliers = multipliers
	return nil
}
