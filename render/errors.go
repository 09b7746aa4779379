package render

import "errors"

var (
	// ErrNoScene is returned when a renderer is asked to accumulate
	// samples before a scene has been attached.
	ErrNoScene = errors.New("render: no scene defined")

	// ErrNoCamera is returned when the attached scene has no camera.
	ErrNoCamera = errors.New("render: no camera defined")

	// ErrInterrupted is returned when Accumulate stops early because
	// Stop was called mid-run.
	ErrInterrupted = errors.New("render: interrupted")
)
