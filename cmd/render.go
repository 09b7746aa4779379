package cmd

import (
	"time"

	"github.com/achilleasa/mlt-pathtracer/driver"
	"github.com/achilleasa/mlt-pathtracer/framebuffer"
	"github.com/achilleasa/mlt-pathtracer/mlt"
	"github.com/achilleasa/mlt-pathtracer/pathtracer"
	"github.com/achilleasa/mlt-pathtracer/render"
	"github.com/achilleasa/mlt-pathtracer/scene"
	"github.com/urfave/cli"
)

const (
	defaultFrameWidth  = 512
	defaultFrameHeight = 384
)

// loader is the scene.Loader the render command uses to turn its
// positional argument into a scene. It is a placeholder: no GLTF decoder
// is wired in, so every invocation renders the same procedural scene
// regardless of the path given.
var loader scene.Loader = proceduralLoader{}

// RenderFrame loads a scene and drives either the Metropolis sampler or
// the plain path tracer through its full sample budget, then prints a
// statistics table.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return cli.NewExitError("expected exactly one glb-file argument", 1)
	}

	numJobs := ctx.Int("jobs")

	enabledMutations := render.AllMutations
	if spec := ctx.String("mutations"); spec != "" {
		parsed, err := parseMutations(spec)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		enabledMutations = parsed
	}

	s, err := loader.Load(ctx.Args().First(), defaultFrameWidth, defaultFrameHeight)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	opts := render.Options{
		FrameWidth:       defaultFrameWidth,
		FrameHeight:      defaultFrameHeight,
		NumJobs:          numJobs,
		EnabledMutations: enabledMutations,
		Exposure:         1,
	}

	var renderer render.Renderer
	if ctx.Bool("use-path-tracer") {
		logger.Notice("using the path tracer")
		renderer = pathtracer.New(s, opts)
	} else {
		logger.Notice("using the Metropolis sampler")
		renderer = mlt.New(s, opts)
	}

	process := driver.New(renderer, opts.FrameWidth, opts.FrameHeight)
	defer process.Close()

	startTime := time.Now()
	for renderer.NumSamplesPerPixel() < driver.NumSamplesToTake {
		time.Sleep(250 * time.Millisecond)
	}
	logger.Noticef("render complete in %.3fs", time.Since(startTime).Seconds())

	if provider, ok := renderer.(render.StatsProvider); ok {
		displayStats(provider.Stats())
	}

	return process.RequestScreenshot(func(fb framebuffer.Image) error {
		logger.Noticef("final frame ready: %dx%d pixels", fb.Width(), fb.Height())
		return nil
	})
}
