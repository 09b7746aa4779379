// Package render defines the contract shared by every sampler (the plain
// path tracer and the Metropolis sampler) along with the options, stats and
// errors that surround it.
package render

import "github.com/achilleasa/mlt-pathtracer/framebuffer"

// Renderer is implemented by every sampler this module ships. A Renderer
// owns its own worker pool and progressively accumulates samples into a
// frame buffer supplied by the caller.
type Renderer interface {
	// Accumulate runs numSamples additional samples per pixel, blocking
	// until all work it submitted to its worker pool has completed.
	Accumulate(numSamples int) error

	// UpdateFrameBuffer writes the current tone-mapped estimate into fb.
	UpdateFrameBuffer(fb *framebuffer.Image)

	// Reset discards all accumulated samples and restarts from scratch,
	// e.g. after the scene or camera changes.
	Reset()

	// Stop requests that any in-flight Accumulate call return early.
	Stop()

	// IsStopping reports whether Stop has been called since the last Reset.
	IsStopping() bool

	// NumSamplesPerPixel reports how many samples have been accumulated
	// into each pixel so far.
	NumSamplesPerPixel() int
}

// StatsProvider is implemented by renderers that can report a per-worker
// breakdown of the render accumulated so far. Both samplers this module
// ships implement it; the interface is kept separate from Renderer because
// a driver only needs Renderer to run a render loop.
type StatsProvider interface {
	Stats() Stats
}
