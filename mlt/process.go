package mlt

import (
	"time"

	"github.com/achilleasa/mlt-pathtracer/framebuffer"
	"github.com/achilleasa/mlt-pathtracer/path"
	"github.com/achilleasa/mlt-pathtracer/rng"
	"github.com/achilleasa/mlt-pathtracer/scene"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

// MutationType identifies which kernel produced a MutationInfo.
type MutationType int

const (
	MutationNewPath MutationType = iota
	MutationLens
	MutationMultiChain
	MutationBidirectional
)

// State is a Markov chain state: the path currently being sampled, the
// pixel it is associated with, and its cached evaluation.
type State struct {
	Path       path.Path
	Pixel      vecmath.Vec2
	Evaluation path.Result
}

// MutationInfo is a proposed replacement state along with the
// Metropolis-Hastings acceptance probability of moving there.
type MutationInfo struct {
	Proposal   State
	Acceptance float32
	Type       MutationType
}

// MLTProcess runs one independent Markov chain. Each worker goroutine owns
// exactly one MLTProcess and never shares its RNG or accumulation buffer
// with another goroutine while it is running.
type MLTProcess struct {
	renderer           *MLT
	accumulationBuffer *framebuffer.Image
	mutationWeights    [4]float32

	clippedGeoDist  *rng.ClippedGeometric
	twoSidedGeoDist *rng.TwoSidedClippedGeometric
	rng             *rng.PCG32

	currentState           *State
	accumulatedLuminance   float32
	numNewPathMutations    int
	averageSamplesPerPixel float32

	numProposedMutations int
	numAcceptedMutations int
	lastRenderTime       time.Duration
}

func newMLTProcess(renderer *MLT, width, height int, seed uint64) *MLTProcess {
	cfg := renderer.config
	weight := func(enabled bool) float32 {
		if enabled {
			return 1
		}
		return 0
	}
	return &MLTProcess{
		renderer:           renderer,
		accumulationBuffer: framebuffer.NewImage(width, height),
		mutationWeights: [4]float32{
			weight(cfg.NewPath),
			weight(cfg.LensPerturbation),
			weight(cfg.MultiChainPerturbation),
			weight(cfg.BidirectionalMutation),
		},
		clippedGeoDist:  rng.NewClippedGeometric(0.5),
		twoSidedGeoDist: rng.NewTwoSidedClippedGeometric(0.5),
		rng:             rng.NewPCG32(seed),
	}
}

func clampPixel(pixel vecmath.Vec2, img *framebuffer.Image) (int, int) {
	x := int(vecmath.Clamp(pixel[0], 0, float32(img.Width()-1)))
	y := int(vecmath.Clamp(pixel[1], 0, float32(img.Height()-1)))
	return x, y
}

func randomEyeRay(s *scene.Scene, g *rng.PCG32) (vecmath.Vec2, scene.Ray) {
	pixel := vecmath.Vec2{g.Float32() * float32(s.Camera.Width), g.Float32() * float32(s.Camera.Height)}
	return pixel, s.Camera.EyeRay(pixel)
}

func luminance(c vecmath.Vec3) float32 {
	return 0.299*c[0] + 0.587*c[1] + 0.114*c[2]
}

func pixelOffset(r1, r2 float32, g *rng.PCG32) vecmath.Vec2 {
	phi := g.Float32() * 2 * vecmath.Pi
	r := r2 * vecmath.Exp(-vecmath.Log(r2/r1)*g.Float32())
	return vecmath.Vec2{r * vecmath.Cos(phi), r * vecmath.Sin(phi)}
}

// offsetBounceDirection perturbs dir by a small random angle drawn from an
// annulus between theta1 and theta2, using the small-angle approximation
// theta ≈ sin(theta).
func offsetBounceDirection(theta1, theta2 float32, dir vecmath.Vec3, g *rng.PCG32) vecmath.Vec3 {
	var u vecmath.Vec3
	if vecmath.Abs(dir[0]) < 0.5 {
		u = dir.Cross(vecmath.Vec3{1, 0, 0})
	} else {
		u = dir.Cross(vecmath.Vec3{0, 1, 0})
	}
	u = u.Normalize()
	v := u.Cross(dir)

	phi := g.Float32() * 2 * vecmath.Pi
	r := theta2 * vecmath.Exp(-vecmath.Log(theta2/theta1)*g.Float32())
	return dir.Add(u.Scale(r * vecmath.Cos(phi))).Add(v.Scale(r * vecmath.Sin(phi))).Normalize()
}

// invGeometryTerm returns the inverse of the geometric coupling term
// between the two endpoints of an explicit connection: squared distance
// over the product of the two cosines.
func invGeometryTerm(a, b path.Vertex) float32 {
	aToB := b.Position.Sub(a.Position.Add(a.GeometricNormal.Scale(vecmath.Epsilon)))
	d2 := aToB.LenSq()
	aToB = aToB.Scale(1 / vecmath.Sqrt(d2))
	cos1 := vecmath.Max(0, a.Normal.Dot(aToB))
	cos2 := vecmath.Max(0, b.Normal.Dot(aToB.Neg()))
	return d2 / (cos1 * cos2)
}

func (p *MLTProcess) sampleMutationType() MutationType {
	total := p.mutationWeights[0] + p.mutationWeights[1] + p.mutationWeights[2] + p.mutationWeights[3]
	if total <= 0 {
		return MutationNewPath
	}
	u := p.rng.Float32() * total
	for i, w := range p.mutationWeights {
		if u < w {
			return MutationType(i)
		}
		u -= w
	}
	return MutationType(len(p.mutationWeights) - 1)
}

// bidirectionalMutation deletes a contiguous run of vertices from the
// current path and replaces it with a freshly sampled run of (possibly
// different) length, reconnecting to whatever of the original path was not
// deleted.
func (p *MLTProcess) bidirectionalMutation(s *scene.Scene) (*MutationInfo, bool) {
	if p.currentState == nil {
		return nil, false
	}

	currentLength := p.currentState.Path.Len()
	p.clippedGeoDist.SetN(currentLength - 1)
	deletedLength := p.clippedGeoDist.Sample(p.rng)

	sIdx := p.rng.Intn(currentLength - deletedLength)
	t := sIdx + deletedLength + 1

	// If we are not deleting the entire suffix, and the first vertex of
	// the suffix is not diffuse, we can't make the explicit connection.
	if t < currentLength && p.currentState.Path.Vertex(t).BounceType != scene.BounceDiffuse {
		return nil, false
	}

	maxAddedLength := path.MaxLength - currentLength + deletedLength
	minAddedLength := 0
	p.twoSidedGeoDist.SetParameters(minAddedLength, deletedLength, maxAddedLength)
	addedLength := p.twoSidedGeoDist.Sample(p.rng)

	proposal := State{Path: path.FromVertex(p.currentState.Path.Vertex(0))}

	Txy, Tyx := float32(1), float32(1)

	proposal.Path.AppendPath(p.currentState.Path.Slice(1, sIdx+1))

	var ray scene.Ray
	if sIdx == 0 {
		// The first deleted vertex is the eye ray's point of contact;
		// deleting it means we need a brand new eye ray.
		pixel, newRay := randomEyeRay(s, p.rng)
		ray = newRay
		proposal.Pixel = pixel
	} else {
		// Otherwise bounce in a new direction from vertex s's material.
		proposal.Pixel = p.currentState.Pixel
		current := proposal.Path.Last()
		inDir := current.Position.Sub(proposal.Path.Vertex(sIdx - 1).Position)
		material := current.Material(s)
		newRay, bounceType := material.SampleDirection(inDir.Neg(), current.SurfacePoint(), p.rng)
		ray = newRay
		current.BounceType = bounceType
		proposal.Path.SetLast(current)
	}

	for i := 0; i < addedLength; i++ {
		nextRay, ok := proposal.Path.AddBounce(s, ray, 0, false, p.rng)
		if !ok {
			return nil, false
		}
		ray = nextRay
	}

	// If we are not deleting the entire suffix, reconnect to it.
	if t < currentLength {
		if proposal.Path.Last().BounceType != scene.BounceDiffuse {
			return nil, false
		}
		if !path.HasVisibility(s, proposal.Path.Last(), p.currentState.Path.Vertex(t)) {
			return nil, false
		}
		if proposal.Path.Len() > 1 {
			Tyx *= vecmath.Pi * invGeometryTerm(proposal.Path.Last(), p.currentState.Path.Vertex(t))
		}
		if t > 1 {
			Txy *= vecmath.Pi * invGeometryTerm(p.currentState.Path.Vertex(t-1), p.currentState.Path.Vertex(t))
		}
		proposal.Path.AppendPath(p.currentState.Path.Slice(t, currentLength))
	}

	// pd is the probability of deleting the run we did; pa of adding the
	// run we did.
	pd := p.clippedGeoDist.PDF(deletedLength) / float32(currentLength-deletedLength)
	pa := p.twoSidedGeoDist.PDF(addedLength)
	Tyx *= pd * pa

	newLength := currentLength + addedLength - deletedLength
	p.clippedGeoDist.SetN(newLength - 1)

	maxAddedLength = path.MaxLength - newLength + addedLength
	minAddedLength = 0
	p.twoSidedGeoDist.SetParameters(minAddedLength, addedLength, maxAddedLength)

	pd = p.clippedGeoDist.PDF(addedLength) / float32(newLength-addedLength)
	pa = p.twoSidedGeoDist.PDF(deletedLength)
	Txy *= pd * pa

	proposal.Evaluation = path.Evaluate(s, proposal.Path.ToSlice())
	currentLum := luminance(p.currentState.Evaluation.Radiance)
	proposalLum := luminance(proposal.Evaluation.Radiance)

	return &MutationInfo{
		Proposal:   proposal,
		Type:       MutationBidirectional,
		Acceptance: vecmath.Min(1, (proposalLum*Txy)/(currentLum*Tyx)),
	}, true
}

// eyePathPerturbation resamples the pixel under a small offset and walks
// the resulting eye ray alongside the current path, rejecting as soon as
// the bounce sequence diverges. multiChain allows the walk to jump across
// a single non-diffuse bounce (e.g. a specular highlight) by perturbing the
// outgoing direction instead of requiring an exact match.
func (p *MLTProcess) eyePathPerturbation(s *scene.Scene, multiChain bool) (*MutationInfo, bool) {
	if p.currentState == nil {
		return nil, false
	}

	width := float32(p.accumulationBuffer.Width())
	height := float32(p.accumulationBuffer.Height())
	offset := pixelOffset(0.1, 0.1*width, p.rng)
	newPixel := vecmath.Vec2{p.currentState.Pixel[0] + offset[0], p.currentState.Pixel[1] + offset[1]}
	if newPixel[0] > width || newPixel[0] < 0 || newPixel[1] > height || newPixel[1] < 0 {
		return nil, false
	}

	ray := s.Camera.EyeRay(newPixel)

	mutType := MutationLens
	if multiChain {
		mutType = MutationMultiChain
	}
	info := &MutationInfo{
		Proposal: State{
			Path:  path.FromVertex(path.Vertex{BounceType: scene.BounceNone, Position: ray.Origin}),
			Pixel: newPixel,
		},
		Type: mutType,
	}

	Txy, Tyx := float32(1), float32(1)

	for i := 1; i < p.currentState.Path.Len(); i++ {
		currentVertex := p.currentState.Path.Vertex(i)

		nextRay, ok := info.Proposal.Path.AddBounce(s, ray, 0, false, p.rng)
		if !ok {
			return nil, false
		}
		ray = nextRay

		if info.Proposal.Path.Last().BounceType != currentVertex.BounceType {
			return nil, false
		}

		if currentVertex.BounceType != scene.BounceDiffuse {
			continue
		}

		if i == p.currentState.Path.Len()-1 {
			break
		}

		nextVertex := p.currentState.Path.Vertex(i + 1)

		if nextVertex.BounceType != scene.BounceDiffuse {
			if !multiChain {
				return nil, false
			}
			originalDirection := nextVertex.Position.Sub(currentVertex.Position).Normalize()
			ray.Direction = offsetBounceDirection(0.0001, 0.1, originalDirection, p.rng)
			Txy *= vecmath.Max(0, originalDirection.Dot(currentVertex.Normal))
			Tyx *= vecmath.Max(0, ray.Direction.Dot(currentVertex.Normal))
			continue
		}

		if !path.HasVisibility(s, info.Proposal.Path.Last(), nextVertex) {
			return nil, false
		}

		Txy *= invGeometryTerm(currentVertex, nextVertex)
		Tyx *= invGeometryTerm(info.Proposal.Path.Last(), nextVertex)

		info.Proposal.Path.AppendPath(p.currentState.Path.Slice(i+1, p.currentState.Path.Len()))
		break
	}

	info.Proposal.Evaluation = path.Evaluate(s, info.Proposal.Path.ToSlice())
	currentLum := luminance(p.currentState.Evaluation.Radiance)
	proposalLum := luminance(info.Proposal.Evaluation.Radiance)
	info.Acceptance = vecmath.Min(1, (proposalLum*Txy)/(currentLum*Tyx))
	return info, true
}

// computeNewPathMutation proposes an entirely independent path from a
// freshly sampled eye ray. Every attempt, successful or not, counts toward
// the normalization factor used by computeScaleFactor.
func (p *MLTProcess) computeNewPathMutation(s *scene.Scene) (*MutationInfo, bool) {
	if p.currentState == nil {
		return nil, false
	}

	pixel, newRay := randomEyeRay(s, p.rng)
	proposalPath := path.CreateRandomEyePath(s, newRay, p.rng)
	if proposalPath.Len() <= 1 {
		p.numNewPathMutations++
		return nil, false
	}

	evaluation := path.Evaluate(s, proposalPath.ToSlice())
	currentLum := luminance(p.currentState.Evaluation.RussianRouletteRadiance)
	proposalLum := luminance(evaluation.RussianRouletteRadiance)

	p.numNewPathMutations++
	p.accumulatedLuminance += proposalLum

	return &MutationInfo{
		Proposal:   State{Path: proposalPath, Pixel: pixel, Evaluation: evaluation},
		Type:       MutationNewPath,
		Acceptance: vecmath.Min(1, proposalLum/currentLum),
	}, true
}

func (p *MLTProcess) computeRandomMutation(s *scene.Scene) (*MutationInfo, bool) {
	switch p.sampleMutationType() {
	case MutationNewPath:
		return p.computeNewPathMutation(s)
	case MutationLens:
		return p.eyePathPerturbation(s, false)
	case MutationMultiChain:
		return p.eyePathPerturbation(s, true)
	case MutationBidirectional:
		return p.bidirectionalMutation(s)
	default:
		return nil, false
	}
}

// accumulate runs numMutations Metropolis-Hastings steps, splatting each
// step's contribution into the accumulation buffer at both the current
// pixel (weighted by 1-acceptance) and the proposal's pixel (weighted by
// acceptance), whether or not the proposal is then accepted.
func (p *MLTProcess) accumulate(s *scene.Scene, numMutations int) {
	for !p.renderer.IsStopping() && p.currentState == nil {
		pixel, ray := randomEyeRay(s, p.rng)
		seedPath := path.CreateRandomEyePath(s, ray, p.rng)
		evaluation := path.Evaluate(s, seedPath.ToSlice())
		if luminance(evaluation.Radiance) > vecmath.Epsilon {
			p.currentState = &State{Path: seedPath, Pixel: pixel, Evaluation: evaluation}
		}
	}

	for i := 0; i < numMutations; i++ {
		if p.renderer.IsStopping() {
			break
		}

		currentColor := p.currentState.Evaluation.Radiance
		currentColor = currentColor.Scale(1 / luminance(currentColor))

		x, y := clampPixel(p.currentState.Pixel, p.accumulationBuffer)

		info, ok := p.computeRandomMutation(s)
		if !ok {
			p.accumulationBuffer.AddRGB(x, y, currentColor)
			continue
		}
		p.numProposedMutations++

		newColor := info.Proposal.Evaluation.Radiance
		newLum := luminance(newColor)
		if newLum < vecmath.Epsilon {
			p.accumulationBuffer.AddRGB(x, y, currentColor)
			continue
		}
		newColor = newColor.Scale(1 / newLum)

		newX, newY := clampPixel(info.Proposal.Pixel, p.accumulationBuffer)

		p.accumulationBuffer.AddRGB(x, y, currentColor.Scale(1-info.Acceptance))
		p.accumulationBuffer.AddRGB(newX, newY, newColor.Scale(info.Acceptance))

		if p.rng.Float32() < info.Acceptance {
			p.currentState = &info.Proposal
			p.numAcceptedMutations++
		}
	}

	numPixels := float32(p.accumulationBuffer.Width() * p.accumulationBuffer.Height())
	p.averageSamplesPerPixel += float32(numMutations) / numPixels
}

// reset clears the accumulation buffer, the scale-factor counters and the
// current Markov chain state; the next accumulate call seeds a new chain.
func (p *MLTProcess) reset() {
	p.currentState = nil
	p.accumulationBuffer.Clear(vecmath.Vec3{})
	p.accumulatedLuminance = 0
	p.numNewPathMutations = 0
	p.averageSamplesPerPixel = 0
	p.numProposedMutations = 0
	p.numAcceptedMutations = 0
}
