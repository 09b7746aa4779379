package render

// EnabledMutations selects which Metropolis mutation kernels a sampler may
// propose. Ignored by the plain path tracer.
type EnabledMutations struct {
	NewPath                bool
	LensPerturbation       bool
	MultiChainPerturbation bool
	BidirectionalMutation  bool
}

// AllMutations enables every kernel, matching the CLI's default.
var AllMutations = EnabledMutations{
	NewPath:                true,
	LensPerturbation:       true,
	MultiChainPerturbation: true,
	BidirectionalMutation:  true,
}

// Options configures a renderer at construction time.
type Options struct {
	FrameWidth, FrameHeight int
	NumJobs                 int
	EnabledMutations        EnabledMutations
	Exposure                float32
}
