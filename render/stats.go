package render

import "time"

// WorkerStat reports one worker's share of a render.
type WorkerStat struct {
	ID           int
	RowsRendered int
	FramePercent float32
	RenderTime   time.Duration
}

// Stats summarizes the render accumulated so far across all workers.
type Stats struct {
	Workers             []WorkerStat
	RenderTime          time.Duration
	SamplesPerPixel     int
	NewPathAttempts     int
	AcceptedMutations   int
	ProposedMutations   int
}
