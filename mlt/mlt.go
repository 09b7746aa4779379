// Package mlt implements a Metropolis Light Transport renderer: many
// independent Markov chains, one per worker, each proposing local
// mutations to a current light-transport path and accepting or rejecting
// them via the Metropolis-Hastings criterion so that, at stationarity,
// samples are drawn in proportion to the radiance they contribute.
package mlt

import (
	"sync/atomic"
	"time"

	"github.com/achilleasa/mlt-pathtracer/framebuffer"
	"github.com/achilleasa/mlt-pathtracer/log"
	"github.com/achilleasa/mlt-pathtracer/render"
	"github.com/achilleasa/mlt-pathtracer/scene"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
	"github.com/achilleasa/mlt-pathtracer/workerpool"
)

var logger = log.New("mlt")

// MLT is a render.Renderer that samples a scene with Metropolis Light
// Transport.
type MLT struct {
	scene         *scene.Scene
	config        render.EnabledMutations
	width, height int

	pool      *workerpool.Pool
	processes []*MLTProcess

	averageSamplesPerPixel float32
	stopping               atomic.Bool
}

// New builds an MLT renderer for s. opts.NumJobs sets both the worker pool
// size and the number of independent Markov chains; a value below 2 runs
// every chain synchronously on the calling goroutine.
func New(s *scene.Scene, opts render.Options) *MLT {
	if opts.EnabledMutations.NewPath {
		logger.Notice("new path mutations enabled")
	}
	if opts.EnabledMutations.LensPerturbation {
		logger.Notice("lens perturbations enabled")
	}
	if opts.EnabledMutations.MultiChainPerturbation {
		logger.Notice("multi-chain perturbations enabled")
	}
	if opts.EnabledMutations.BidirectionalMutation {
		logger.Notice("bidirectional mutations enabled")
	}

	numProcesses := opts.NumJobs
	if numProcesses < 1 {
		numProcesses = 1
	}

	m := &MLT{
		scene:  s,
		config: opts.EnabledMutations,
		width:  opts.FrameWidth,
		height: opts.FrameHeight,
		pool:   workerpool.New(opts.NumJobs),
	}
	for i := 0; i < numProcesses; i++ {
		m.processes = append(m.processes, newMLTProcess(m, opts.FrameWidth, opts.FrameHeight, uint64(i)+1))
	}
	return m
}

// Accumulate runs numSamples additional samples per pixel, split evenly
// across every Markov chain.
func (m *MLT) Accumulate(numSamples int) error {
	if m.scene == nil {
		return render.ErrNoScene
	}

	numMutationsPerProcess := numSamples * m.width * m.height / len(m.processes)
	for _, proc := range m.processes {
		proc := proc
		m.pool.Submit(func() {
			start := time.Now()
			proc.accumulate(m.scene, numMutationsPerProcess)
			proc.lastRenderTime = time.Since(start)
		})
	}
	m.pool.Wait()

	m.averageSamplesPerPixel += float32(numSamples)

	if m.IsStopping() {
		return render.ErrInterrupted
	}
	return nil
}

// UpdateFrameBuffer merges every chain's accumulation buffer into fb,
// scaled by computeScaleFactor, then tone-maps and gamma-corrects the
// result.
func (m *MLT) UpdateFrameBuffer(fb *framebuffer.Image) {
	fb.Clear(vecmath.Vec3{})

	scale := m.computeScaleFactor()
	for _, proc := range m.processes {
		buf := proc.accumulationBuffer
		for y := 0; y < fb.Height(); y++ {
			for x := 0; x < fb.Width(); x++ {
				fb.AddRGB(x, y, buf.RGB(x, y).Scale(scale))
			}
		}
	}

	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			fb.SetRGB(x, y, framebuffer.ApplyCorrection(fb.RGB(x, y)))
		}
	}
}

// Reset discards every chain's accumulated samples.
func (m *MLT) Reset() {
	m.stopping.Store(false)
	for _, proc := range m.processes {
		proc.reset()
	}
	m.averageSamplesPerPixel = 0
}

// Stop requests that any in-flight Accumulate call return early.
func (m *MLT) Stop() { m.stopping.Store(true) }

// IsStopping reports whether Stop has been called since the last Reset.
func (m *MLT) IsStopping() bool { return m.stopping.Load() }

// NumSamplesPerPixel reports how many samples have been accumulated into
// each pixel so far.
func (m *MLT) NumSamplesPerPixel() int { return int(m.averageSamplesPerPixel) }

// computeScaleFactor derives the factor that rescales the unitless
// Metropolis histogram back onto a physical radiance scale: the average
// luminance contributed by independent new-path proposals, divided by how
// many samples per pixel those proposals represent in total.
//
// If new path mutations are disabled no chain ever accumulates either
// term, so this logs a warning and returns 0 instead of dividing by zero.
func (m *MLT) computeScaleFactor() float32 {
	var totalAccumulatedLuminance float32
	var totalNumNewPathMutations int
	for _, proc := range m.processes {
		totalAccumulatedLuminance += proc.accumulatedLuminance
		totalNumNewPathMutations += proc.numNewPathMutations
	}
	if totalNumNewPathMutations == 0 || m.averageSamplesPerPixel == 0 {
		logger.Warning("cannot compute MLT scale factor: no new path mutations have been accumulated yet")
		return 0
	}
	return (totalAccumulatedLuminance / float32(totalNumNewPathMutations)) / m.averageSamplesPerPixel
}

// Stats reports each Markov chain's share of the accumulated luminance
// along with its proposed/accepted/new-path mutation counts, satisfying
// render.StatsProvider.
func (m *MLT) Stats() render.Stats {
	var totalLuminance float32
	for _, proc := range m.processes {
		totalLuminance += proc.accumulatedLuminance
	}

	stats := render.Stats{SamplesPerPixel: m.NumSamplesPerPixel()}
	for i, proc := range m.processes {
		var framePercent float32
		if totalLuminance > 0 {
			framePercent = 100 * proc.accumulatedLuminance / totalLuminance
		}
		stats.Workers = append(stats.Workers, render.WorkerStat{
			ID:           i,
			FramePercent: framePercent,
			RenderTime:   proc.lastRenderTime,
		})
		if proc.lastRenderTime > stats.RenderTime {
			stats.RenderTime = proc.lastRenderTime
		}
		stats.NewPathAttempts += proc.numNewPathMutations
		stats.ProposedMutations += proc.numProposedMutations
		stats.AcceptedMutations += proc.numAcceptedMutations
	}
	return stats
}
