// Package pathtracer implements a plain unidirectional path tracer: every
// sample traces one independent eye path and one independent light path,
// connecting them at each diffuse bounce.
package pathtracer

import (
	"sync/atomic"
	"time"

	"github.com/achilleasa/mlt-pathtracer/framebuffer"
	"github.com/achilleasa/mlt-pathtracer/path"
	"github.com/achilleasa/mlt-pathtracer/render"
	"github.com/achilleasa/mlt-pathtracer/rng"
	"github.com/achilleasa/mlt-pathtracer/scene"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
	"github.com/achilleasa/mlt-pathtracer/workerpool"
)

// blockWidth is the side length of the square pixel blocks Accumulate
// splits the frame into before handing them to the worker pool.
const blockWidth = 32

// debiasWeight is the fixed split between the implicit (BSDF-sampled) and
// explicit (light-sampled) estimators at every diffuse vertex. A properly
// unbiased integrator would weight the two by multiple importance
// sampling; this one always splits them 50/50 regardless of how well each
// strategy actually samples the vertex.
const debiasWeight = 0.5

// PathTracer is a render.Renderer that accumulates samples via plain
// unidirectional path tracing.
type PathTracer struct {
	scene *scene.Scene
	pool  *workerpool.Pool

	accumulationBuffer *framebuffer.Image
	numSamplesPerPixel int
	numJobs            int
	totalRenderTime    time.Duration

	nextSeed atomic.Uint64
	stopping atomic.Bool
}

// New builds a path tracer for s.
func New(s *scene.Scene, opts render.Options) *PathTracer {
	pt := &PathTracer{
		scene:              s,
		pool:               workerpool.New(opts.NumJobs),
		accumulationBuffer: framebuffer.NewImage(opts.FrameWidth, opts.FrameHeight),
		numJobs:            opts.NumJobs,
	}
	pt.nextSeed.Store(1)
	return pt
}

// Accumulate runs numSamples additional samples per pixel, split into
// blockWidth-square blocks submitted to the worker pool.
func (pt *PathTracer) Accumulate(numSamples int) error {
	if pt.scene == nil {
		return render.ErrNoScene
	}

	start := time.Now()

	width := pt.accumulationBuffer.Width()
	height := pt.accumulationBuffer.Height()

	for y := 0; y < height; y += blockWidth {
		for x := 0; x < width; x += blockWidth {
			x, y := x, y
			seed := pt.nextSeed.Add(1)
			pt.pool.Submit(func() {
				pt.accumulateBlock(numSamples, x, y, blockWidth, rng.NewPCG32(seed))
			})
		}
	}
	pt.pool.Wait()

	pt.totalRenderTime += time.Since(start)
	pt.numSamplesPerPixel += numSamples

	if pt.IsStopping() {
		return render.ErrInterrupted
	}
	return nil
}

// accumulateBlock traces numSamples eye paths per pixel in [x, x+blockWidth)
// x [y, y+blockWidth), clipped to the buffer's bounds.
func (pt *PathTracer) accumulateBlock(numSamples, x, y, blockWidth int, g *rng.PCG32) {
	maxY := min(pt.accumulationBuffer.Height(), y+blockWidth)
	maxX := min(pt.accumulationBuffer.Width(), x+blockWidth)

	for j := y; j < maxY; j++ {
		for i := x; i < maxX; i++ {
			var radiance vecmath.Vec3
			for k := 0; k < numSamples; k++ {
				if pt.IsStopping() {
					return
				}

				pixel := vecmath.Vec2{float32(i) + g.Float32(), float32(j) + g.Float32()}
				ray := pt.scene.Camera.EyeRay(pixel)
				eyePath := path.CreateRandomEyePath(pt.scene, ray, g)
				lightPath := path.CreateRandomLightPath(pt.scene, g)

				throughput := vecmath.Vec3{1, 1, 1}
				for vi := 1; vi < eyePath.Len(); vi++ {
					prevVertex := eyePath.Vertex(vi - 1)
					vertex := eyePath.Vertex(vi)

					if vi < eyePath.Len()-1 {
						nextVertex := eyePath.Vertex(vi + 1)
						implicit := path.EvaluateImplicit(pt.scene, prevVertex, vertex, nextVertex)
						throughput = throughput.Mul(implicit.RussianRouletteRadiance)
					}

					if vertex.BounceType == scene.BounceDiffuse && lightPath.Len() > 0 {
						contribution := path.EvaluateExplicitLight(pt.scene, prevVertex, vertex, lightPath.Vertex(0))
						radiance = radiance.Add(throughput.Mul(contribution).Scale(debiasWeight))
					}

					material := vertex.Material(pt.scene)
					emission := material.Emission(vertex.SurfacePoint())
					radiance = radiance.Add(throughput.Mul(emission).Scale(debiasWeight))
				}
			}
			pt.accumulationBuffer.AddRGB(i, j, radiance)
		}
	}
}

// UpdateFrameBuffer writes the tone-mapped, gamma-corrected average of the
// accumulated samples into fb.
func (pt *PathTracer) UpdateFrameBuffer(fb *framebuffer.Image) {
	inv := float32(1)
	if pt.numSamplesPerPixel > 0 {
		inv = 1 / float32(pt.numSamplesPerPixel)
	}
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			fb.SetRGB(x, y, framebuffer.ApplyCorrection(pt.accumulationBuffer.RGB(x, y).Scale(inv)))
		}
	}
}

// Reset discards all accumulated samples.
func (pt *PathTracer) Reset() {
	pt.stopping.Store(false)
	pt.accumulationBuffer.Clear(vecmath.Vec3{})
	pt.numSamplesPerPixel = 0
}

// Stop requests that any in-flight Accumulate call return early.
func (pt *PathTracer) Stop() { pt.stopping.Store(true) }

// IsStopping reports whether Stop has been called since the last Reset.
func (pt *PathTracer) IsStopping() bool { return pt.stopping.Load() }

// NumSamplesPerPixel reports how many samples have been accumulated into
// each pixel so far.
func (pt *PathTracer) NumSamplesPerPixel() int { return pt.numSamplesPerPixel }

// Stats reports a single worker-pool-wide summary, satisfying
// render.StatsProvider. The plain path tracer has no per-chain mutation
// bookkeeping, so only the sample count, the total render time and a single
// worker row covering the whole frame are filled in.
func (pt *PathTracer) Stats() render.Stats {
	return render.Stats{
		SamplesPerPixel: pt.numSamplesPerPixel,
		RenderTime:      pt.totalRenderTime,
		Workers: []render.WorkerStat{
			{
				ID:           0,
				RowsRendered: pt.accumulationBuffer.Height(),
				FramePercent: 100,
				RenderTime:   pt.totalRenderTime,
			},
		},
	}
}
