package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/achilleasa/mlt-pathtracer/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	app := cli.NewApp()
	app.Name = "mlt-pathtracer"
	app.Usage = "offline renderer core: Metropolis Light Transport and plain path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "v", Usage: "enable info-level logging"},
		cli.BoolFlag{Name: "vv", Usage: "enable debug-level logging"},
	}
	app.Commands = []cli.Command{
		{
			Name:      "render",
			Usage:     "render a scene to its full sample budget",
			ArgsUsage: "<glb-file>",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "jobs, j",
					Value: runtime.NumCPU(),
					Usage: "number of worker goroutines to use",
				},
				cli.BoolFlag{
					Name:  "use-path-tracer, pt",
					Usage: "use the plain path tracer instead of the Metropolis sampler",
				},
				cli.StringFlag{
					Name:  "mutations, m",
					Value: "",
					Usage: "comma-separated list of enabled mutation kernels (default: all); prefixes of newPathMutation, lensPerturbation, multiChainPerturbation, bidirectionalMutation",
				},
			},
			Action: cmd.RenderFrame,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
