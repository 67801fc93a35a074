package main

import (
	"fmt"
	"math"
	"strings"
)

// Semitone offsets of the natural notes within an octave.
var noteOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Chord qualities as semitone intervals above the root.
var chordIntervals = map[string][]int{
	"":     {0, 4, 7},
	"maj":  {0, 4, 7},
	"m":    {0, 3, 7},
	"min":  {0, 3, 7},
	"dim":  {0, 3, 6},
	"aug":  {0, 4, 8},
	"7":    {0, 4, 7, 10},
	"maj7": {0, 4, 7, 11},
	"m7":   {0, 3, 7, 10},
	"min7": {0, 3, 7, 10},
	"sus2": {0, 2, 7},
	"sus4": {0, 5, 7},
}

const defaultOctave = 4

// parseChord turns a symbol like "C", "F#m", "Bb7" or "C3maj7" into the
// chord tone frequencies in Hz. An optional digit after the root picks
// the octave; without one the root sits in octave 4.
func parseChord(symbol string) ([]float64, error) {
	s := strings.TrimSpace(symbol)
	if s == "" {
		return nil, fmt.Errorf("empty chord symbol")
	}

	offset, ok := noteOffsets[s[0]]
	if !ok {
		return nil, fmt.Errorf("chord %q: unknown root note %q", symbol, s[0])
	}
	s = s[1:]

	if len(s) > 0 {
		switch s[0] {
		case '#':
			offset++
			s = s[1:]
		case 'b':
			offset--
			s = s[1:]
		}
	}

	octave := defaultOctave
	if len(s) > 0 && s[0] >= '0' && s[0] <= '9' {
		octave = int(s[0] - '0')
		s = s[1:]
	}

	intervals, ok := chordIntervals[s]
	if !ok {
		return nil, fmt.Errorf("chord %q: unknown quality %q", symbol, s)
	}

	rootMIDI := 12*(octave+1) + offset
	freqs := make([]float64, len(intervals))
	for i, semis := range intervals {
		freqs[i] = midiFrequency(rootMIDI + semis)
	}
	return freqs, nil
}

// midiFrequency returns the equal-temperament frequency of a MIDI note
// number, A4 (69) = 440 Hz.
func midiFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

// parseProgression splits a whitespace-separated chord list.
func parseProgression(s string) ([][]float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty chord progression")
	}
	chords := make([][]float64, len(fields))
	for i, sym := range fields {
		freqs, err := parseChord(sym)
		if err != nil {
			return nil, err
		}
		chords[i] = freqs
	}
	return chords, nil
}
