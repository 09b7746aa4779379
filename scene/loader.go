package scene

// Loader builds a Scene from a file path. The format this renderer is
// meant to consume (GLTF binary, .glb) is an external collaborator outside
// this module's scope; callers supply whatever Loader implementation
// parses it. width and height size the camera the loader constructs, so
// the same file can be loaded at different output resolutions.
type Loader interface {
	Load(path string, width, height int) (*Scene, error)
}
