package scene

// BounceType classifies how a path vertex was reached from its predecessor.
type BounceType int

const (
	BounceNone BounceType = iota
	BounceDiffuse
	BounceReflective
	BounceRefractive
)

// ConnectionType classifies how a path vertex was added to a path: as the
// path's origin, via a BSDF-sampled bounce (implicit), or via an explicitly
// sampled point on a light or triangle (explicit).
type ConnectionType int

const (
	ConnectionOrigin ConnectionType = iota
	ConnectionImplicit
	ConnectionExplicit
)

// GetType classifies a material by its PBR parameters into one of the three
// bounce behaviors the sampler understands.
func (m MaterialData) GetType() BounceType {
	if m.TransmissionFactor > 0.5 && m.MetallicFactor < 0.5 {
		return BounceRefractive
	}
	if m.MetallicFactor > 0.5 && m.RoughnessFactor < 0.5 {
		return BounceReflective
	}
	return BounceDiffuse
}
