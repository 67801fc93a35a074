package synth

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/buffer"
	"github.com/cwbudde/algo-dsp/dsp/core"
)

// Context carries the sample rate and buffer allocation shared by all
// synthesis components of one audio session. Rendering cannot proceed
// without one; functions that take a Context fail on nil.
type Context struct {
	cfg  core.ProcessorConfig
	pool *buffer.Pool
}

// NewContext creates an audio context. Defaults follow
// [core.DefaultProcessorConfig]; override with [core.WithSampleRate] and
// [core.WithBlockSize].
func NewContext(opts ...core.ProcessorOption) (*Context, error) {
	cfg := core.ApplyProcessorOptions(opts...)
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("synth: context sample rate must be > 0: %f", cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("synth: context block size must be > 0: %d", cfg.BlockSize)
	}
	return &Context{
		cfg:  cfg,
		pool: buffer.NewPool(),
	}, nil
}

// SampleRate returns the context sample rate in Hz.
func (c *Context) SampleRate() float64 {
	return c.cfg.SampleRate
}

// BlockSize returns the preferred processing block size in samples.
func (c *Context) BlockSize() int {
	return c.cfg.BlockSize
}

// AcquireBuffer returns a zeroed pooled buffer of the requested length.
// Callers must return it via ReleaseBuffer when done.
func (c *Context) AcquireBuffer(length int) *buffer.Buffer {
	return c.pool.Get(length)
}

// ReleaseBuffer returns a buffer to the context pool.
func (c *Context) ReleaseBuffer(b *buffer.Buffer) {
	c.pool.Put(b)
}
