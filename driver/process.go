// Package driver runs a render.Renderer on its own goroutine, progressively
// growing the per-step sample count and exposing a double-buffered frame
// buffer that can be read at any time without blocking the render loop.
package driver

import (
	"sync"
	"time"

	"github.com/achilleasa/mlt-pathtracer/framebuffer"
	"github.com/achilleasa/mlt-pathtracer/log"
	"github.com/achilleasa/mlt-pathtracer/render"
)

var logger = log.New("driver")

const (
	// NumSamplesToTake is the per-pixel sample budget a render process
	// stops at.
	NumSamplesToTake = 16384

	// MaxNumSamplesPerStep caps the exponential growth of the per-step
	// sample count; once reached, every step takes this many samples.
	MaxNumSamplesPerStep = 128
)

// RenderProcess drives a renderer through a progressive sampling loop on
// its own goroutine. FrameBuffer returns the most recently completed
// frame; the render loop swaps in a new one behind the caller's back, so
// it is safe to call from another goroutine at any time.
type RenderProcess struct {
	renderer render.Renderer
	width    int
	height   int

	mu          sync.Mutex
	front, back *framebuffer.Image

	done chan struct{}
}

// New starts a render process for renderer, sampling into width x height
// frame buffers.
func New(renderer render.Renderer, width, height int) *RenderProcess {
	p := &RenderProcess{
		renderer: renderer,
		width:    width,
		height:   height,
		front:    framebuffer.NewImage(width, height),
		back:     framebuffer.NewImage(width, height),
	}
	p.start()
	return p
}

func (p *RenderProcess) start() {
	done := make(chan struct{})
	p.done = done
	go p.renderLoop(done)
}

// FrameBuffer returns the most recently completed frame. The returned image
// stays unchanged only until the render loop's next buffer swap; after that
// it is the back buffer, and the loop overwrites it with a later frame.
func (p *RenderProcess) FrameBuffer() *framebuffer.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.front
}

// RequestScreenshot snapshots the current front buffer and passes it to
// encode. Actual image encoding (e.g. to PNG) is the caller's
// responsibility; this only guarantees the snapshot is stable for the
// duration of the call.
func (p *RenderProcess) RequestScreenshot(encode func(framebuffer.Image) error) error {
	p.mu.Lock()
	front := p.front
	p.mu.Unlock()

	snapshot := framebuffer.NewImage(front.Width(), front.Height())
	snapshot.CopyFrom(front)
	return encode(*snapshot)
}

// Reset stops the current render loop, resets the renderer's accumulated
// state, and restarts rendering from scratch. Call this after the scene or
// camera changes.
func (p *RenderProcess) Reset() {
	p.renderer.Stop()
	<-p.done
	p.renderer.Reset()
	p.start()
}

// Close stops the render loop and waits for it to exit. The process must
// not be used afterward.
func (p *RenderProcess) Close() {
	p.renderer.Stop()
	<-p.done
}

func (p *RenderProcess) renderLoop(done chan struct{}) {
	defer close(done)

	sampleStepSize := 1
	startTime := time.Now()

	for p.renderer.NumSamplesPerPixel() < NumSamplesToTake {
		if err := p.renderer.Accumulate(sampleStepSize); err != nil {
			return
		}
		if p.renderer.IsStopping() {
			return
		}

		if sampleStepSize < MaxNumSamplesPerStep {
			sampleStepSize *= 2
		} else {
			logger.Infof("samples per pixel: %d, time: %.3fs",
				p.renderer.NumSamplesPerPixel(), time.Since(startTime).Seconds())
		}

		p.renderer.UpdateFrameBuffer(p.back)

		p.mu.Lock()
		p.front, p.back = p.back, p.front
		p.mu.Unlock()
	}
}
