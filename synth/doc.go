// Package synth holds the shared types of the synthesis core: the audio
// context every renderer draws sample rate and scratch buffers from, and
// the harmonic partial type produced by the spectral models.
package synth
