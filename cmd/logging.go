package cmd

import (
	"github.com/achilleasa/mlt-pathtracer/log"
	"github.com/urfave/cli"
)

var logger = log.New("cmd")

// setupLogging raises the log level according to the global -v/-vv flags.
func setupLogging(ctx *cli.Context) {
	level := log.Notice
	switch {
	case ctx.GlobalBool("vv"):
		level = log.Debug
	case ctx.GlobalBool("v"):
		level = log.Info
	}
	log.SetLevel(level)
}
